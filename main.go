// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"lidefer/cvar"
	"lidefer/cvars"
	"lidefer/glrender"
	"lidefer/image"
	"lidefer/input"
	"lidefer/lights"
	"lidefer/math/vec"
	"lidefer/pipeline"
	"lidefer/qtime"
	"lidefer/scene"
	"lidefer/window"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// assignments collects repeated -set flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(s string) error {
	*a = append(*a, s)
	return nil
}

var (
	width      = flag.Int("width", 0, "window width, 0 uses vid_width")
	height     = flag.Int("height", 0, "window height, 0 uses vid_height")
	fullscreen = flag.Bool("fullscreen", false, "start in fullscreen")
	debug      = flag.Bool("debug", false, "GL debug context and debug logging")
	shots      = flag.String("screenshots", ".", "directory screenshots are written to")
	sets       assignments
)

const (
	// mouse buttons share the key bindings above the SDL keycode range
	mouseKeyBase = 1 << 30
	placeRadius  = 350
)

func main() {
	flag.Var(&sets, "set", "set a cvar, name=value, may be repeated")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	for _, s := range sets {
		if err := cvar.Execute(s); err != nil {
			log.Fatalf("-set %s: %v", s, err)
		}
	}
	if *width > 0 {
		cvars.VideoWidth.SetValue(float32(*width))
	}
	if *height > 0 {
		cvars.VideoHeight.SetValue(float32(*height))
	}
	if *fullscreen {
		cvars.VideoFullscreen.SetValue(1)
	}

	var err error
	mainthread.Run(func() {
		err = run()
	})
	if err != nil {
		log.Fatal(err)
	}
}

type app struct {
	p       *pipeline.Pipeline
	dev     *glrender.Device
	clock   *qtime.Clock
	keys    *input.Bindings
	quit    bool
	placed  int
	resized bool
}

func run() error {
	a := &app{clock: qtime.NewClock(), keys: input.NewBindings()}
	var err error
	mainthread.Call(func() {
		err = a.init()
	})
	defer mainthread.Call(func() {
		window.Shutdown()
		sdl.Quit()
	})
	if err != nil {
		return err
	}
	for !a.quit {
		mainthread.Call(func() {
			err = a.frame()
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *app) init() error {
	v := sdl.Version{}
	sdl.GetVersion(&v)
	slog.Info("Found SDL", "version", fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch))
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl init")
	}
	err := window.Open(
		int32(cvars.VideoWidth.Value()),
		int32(cvars.VideoHeight.Value()),
		cvars.VideoFullscreen.Bool(),
		*debug)
	if err != nil {
		return err
	}
	window.SetVSync(cvars.VideoVerticalSync.Bool())

	w, h := window.Size()
	a.dev = glrender.New(w, h)
	sc, err := scene.New(a.dev)
	if err != nil {
		return err
	}
	if a.p, err = pipeline.New(a.dev, sc, scene.Start, w, h); err != nil {
		return err
	}
	a.bind()
	return nil
}

func (a *app) bind() {
	k := a.keys
	for key, b := range map[sdl.Keycode]*input.Button{
		sdl.K_w:      &input.Forward,
		sdl.K_UP:     &input.Forward,
		sdl.K_s:      &input.Back,
		sdl.K_DOWN:   &input.Back,
		sdl.K_a:      &input.MoveLeft,
		sdl.K_LEFT:   &input.MoveLeft,
		sdl.K_d:      &input.MoveRight,
		sdl.K_RIGHT:  &input.MoveRight,
		sdl.K_SPACE:  &input.Up,
		sdl.K_LCTRL:  &input.Down,
		sdl.K_LSHIFT: &input.Speed,
	} {
		k.BindButton(int(key), b)
	}
	k.BindButton(mouseKeyBase+int(sdl.BUTTON_RIGHT), &input.MLook)

	k.BindAction(int(sdl.K_ESCAPE), func() { a.quit = true })
	k.BindAction(int(sdl.K_F1), cvars.RLIDefer.Toggle)
	k.BindAction(int(sdl.K_F2), cvars.RStencilMask.Toggle)
	k.BindAction(int(sdl.K_F3), cvars.RDepthBounds.Toggle)
	k.BindAction(int(sdl.K_F4), func() { cvars.RLightsPerFrag.Cycle("1", "2", "3", "4") })
	k.BindAction(int(sdl.K_F5), cvars.RAnimateLights.Toggle)
	k.BindAction(int(sdl.K_F6), cvars.RStaticLights.Toggle)
	k.BindAction(int(sdl.K_F7), cvars.RPrecisionTest.Toggle)
	k.BindAction(int(sdl.K_F8), cvars.RShowStats.Toggle)
	k.BindAction(int(sdl.K_F9), func() {
		if err := a.p.Lights().Dump(os.Stdout); err != nil {
			slog.Error("Dump lights", "err", err)
		}
	})
	k.BindAction(int(sdl.K_F10), a.placeLight)
	k.BindAction(int(sdl.K_F11), func() {
		if err := cvar.List(os.Stdout); err != nil {
			slog.Error("List cvars", "err", err)
		}
	})
	k.BindAction(int(sdl.K_F12), a.screenshot)
}

// placeLight drops a white light at the camera, walking through the slots
// after the primaries.
func (a *app) placeLight() {
	i := lights.PrimaryCount + a.placed%lights.SecondaryCount
	a.placed++
	if err := a.p.PlaceAtCamera(i, vec.Vec3{X: 1, Y: 1, Z: 1}, placeRadius); err != nil {
		slog.Error("Place light", "err", err)
		return
	}
	slog.Info("Placed light", "slot", i, "pos", a.p.Camera().Pos)
}

func (a *app) screenshot() {
	data, w, h := a.dev.ReadPixels()
	name, err := image.Screenshot(*shots, data, w, h)
	if err != nil {
		slog.Error("Screenshot", "err", err)
		return
	}
	slog.Info("Wrote screenshot", "file", name)
}

func (a *app) events() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			a.quit = true
		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				a.resized = true
			case sdl.WINDOWEVENT_FOCUS_LOST:
				input.Release()
				window.SetMouseGrab(false)
			}
		case *sdl.KeyboardEvent:
			a.keys.Key(int(e.Keysym.Sym), e.State == sdl.PRESSED, e.Repeat != 0)
		case *sdl.MouseButtonEvent:
			a.keys.Key(mouseKeyBase+int(e.Button), e.State == sdl.PRESSED, false)
			window.SetMouseGrab(input.MLook.Down())
		case *sdl.MouseMotionEvent:
			if input.MLook.Down() {
				s := cvars.Sensitivity.Value()
				a.p.Camera().Turn(-float32(e.YRel)*s, -float32(e.XRel)*s)
			}
		}
	}
}

func (a *app) frame() error {
	a.events()
	if a.resized {
		a.resized = false
		w, h := window.Size()
		a.dev.SetWindowSize(w, h)
		if err := a.p.Resize(w, h); err != nil {
			return err
		}
	}

	dt := a.clock.Tick()
	cam := a.p.Camera()
	cam.Move(a.p.World(), input.Direction(cam.Axes()), dt)

	st := a.p.Stats()
	if cvars.RShowStats.Bool() {
		err := a.p.HUD().SetLines(
			fmt.Sprintf("%.0f fps", a.clock.FPS()),
			fmt.Sprintf("path: %v", st.Path),
			fmt.Sprintf("lights per fragment: %d", st.Mode),
			fmt.Sprintf("visible lights: %d/%d", st.Visible, lights.MaxLights),
			fmt.Sprintf("passes %d draws %d", st.Passes, st.Draws),
		)
		if err != nil {
			return err
		}
	}
	if err := a.p.Frame(dt); err != nil {
		return err
	}
	window.EndRendering()
	return nil
}
