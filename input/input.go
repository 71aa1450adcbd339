// SPDX-License-Identifier: GPL-2.0-or-later

// package input handles button event tracking and key bindings
package input

import (
	"lidefer/math/vec"
)

type Button struct {
	// key nums holding it down, can handle 2 keys with the same action
	holdingDown [2]int
	down        bool
	impulseDown bool
	impulseUp   bool
}

var (
	Forward   Button
	Back      Button
	MoveLeft  Button
	MoveRight Button
	Up        Button
	Down      Button
	Speed     Button
	MLook     Button
)

func (b *Button) Down() bool {
	return b.down
}

// Returns 0.25 if a button was pressed and released during the frame,
// 0.5 if it was pressed and held
// 0 if held then released, and
// 1 if held for the entire time
func (b *Button) GetImpulse() float32 {
	if b.impulseDown && b.impulseUp {
		if b.down {
			return 0.75
		}
		return 0.25
	}
	if !b.impulseDown && !b.impulseUp {
		if b.down {
			return 1
		}
		return 0
	}
	if b.impulseUp && !b.impulseDown {
		return 0
	}
	if b.impulseDown && !b.impulseUp {
		if b.down {
			return 0.5
		}
		return 0
	}
	return 0 // unreachable
}

func (b *Button) ResetImpulse() {
	b.impulseDown = false
	b.impulseUp = false
}

func (b *Button) ConsumeImpulse() float32 {
	i := b.GetImpulse()
	b.ResetImpulse()
	return i
}

func (b *Button) upKey(k int) {
	if b.holdingDown[0] == k {
		b.holdingDown[0] = 0
	} else if b.holdingDown[1] == k {
		b.holdingDown[1] = 0
	} else {
		return
	}
	if b.holdingDown[0] != 0 || b.holdingDown[1] != 0 {
		// some other key is still holding it down
		return
	}
	if !b.down {
		return
	}
	b.down = false
	b.impulseUp = true
}

func (b *Button) downKey(k int) {
	if b.holdingDown[0] == k || b.holdingDown[1] == k {
		// key repeat
		return
	}
	if b.holdingDown[0] == 0 {
		b.holdingDown[0] = k
	} else if b.holdingDown[1] == 0 {
		b.holdingDown[1] = k
	} else {
		return
	}
	if b.down {
		return
	}
	b.down = true
	b.impulseDown = true
}

// Bindings maps key numbers to buttons, which follow the key state, and to
// actions, which run once per press.
type Bindings struct {
	buttons map[int]*Button
	actions map[int]func()
}

func NewBindings() *Bindings {
	return &Bindings{
		buttons: make(map[int]*Button),
		actions: make(map[int]func()),
	}
}

func (b *Bindings) BindButton(key int, btn *Button) {
	b.buttons[key] = btn
}

func (b *Bindings) BindAction(key int, f func()) {
	b.actions[key] = f
}

// Key feeds one key event. repeat marks events generated by key repeat.
func (b *Bindings) Key(key int, down, repeat bool) {
	if btn, ok := b.buttons[key]; ok {
		if down {
			btn.downKey(key)
		} else {
			btn.upKey(key)
		}
	}
	if f, ok := b.actions[key]; ok && down && !repeat {
		f()
	}
}

// Direction combines the movement buttons into a world space direction
// along the given camera axes. Speed doubles its length. Impulses are
// consumed.
func Direction(forward, right, up vec.Vec3) vec.Vec3 {
	f := Forward.ConsumeImpulse() - Back.ConsumeImpulse()
	r := MoveRight.ConsumeImpulse() - MoveLeft.ConsumeImpulse()
	u := Up.ConsumeImpulse() - Down.ConsumeImpulse()
	d := vec.Add(vec.Add(forward.Scale(f), right.Scale(r)), up.Scale(u))
	if d.LengthSquared() == 0 {
		return d
	}
	d = d.Normalize()
	if Speed.Down() {
		d = d.Scale(2)
	}
	return d
}

// Release lifts every button, used when the window loses focus.
func Release() {
	for _, b := range []*Button{&Forward, &Back, &MoveLeft, &MoveRight, &Up, &Down, &Speed, &MLook} {
		*b = Button{}
	}
}
