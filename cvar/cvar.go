// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	notify   bool
	rom      bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Notify() bool {
	return cv.notify
}

func (cv *Cvar) ReadOnly() bool {
	return cv.rom
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) SetReadOnly(rom bool) {
	cv.rom = rom
}

// Force sets the value even if the cvar is read only and then locks it.
// Used when the hardware decides a setting.
func (cv *Cvar) Force(s string) {
	cv.rom = false
	cv.SetByString(s)
	cv.rom = true
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

// Cycle moves to the value following the current one in values, wrapping
// around. A value not in the list moves to the first entry.
func (cv *Cvar) Cycle(values ...string) {
	if len(values) == 0 {
		return
	}
	i := slices.Index(values, cv.String())
	cv.SetByString(values[(i+1)%len(values)])
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0"
}

func Get(name string) (*Cvar, bool) {
	cv, err := cvarByName[name]
	return cv, err
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, errors.Errorf("Can't register variable %s, already defined", name)
	}

	cv := create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&NOTIFY != 0 {
		cv.notify = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}

	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}

// Set changes a registered cvar. Unlike the console set it never creates
// new variables.
func Set(name, value string) error {
	cv, ok := Get(name)
	if !ok {
		return errors.Errorf("cvar %s not found", name)
	}
	if cv.rom {
		return errors.Errorf("cvar %s is read only", name)
	}
	cv.SetByString(value)
	return nil
}

// Execute parses "name value" or "name=value" assignments.
func Execute(assignment string) error {
	n, v, ok := strings.Cut(assignment, "=")
	if !ok {
		f := strings.Fields(assignment)
		if len(f) != 2 {
			return errors.Errorf("expected <cvar> <value>, got %q", assignment)
		}
		n, v = f[0], f[1]
	}
	return Set(strings.TrimSpace(n), strings.TrimSpace(v))
}

// List writes every cvar, archived ones marked with a star.
func List(w io.Writer) error {
	cvars := All()
	for _, v := range cvars {
		if _, err := fmt.Fprintf(w, "%s%s %s \"%s\"\n",
			func() string {
				if v.Archive() {
					return "*"
				}
				return " "
			}(),
			func() string {
				if v.ReadOnly() {
					return "r"
				}
				return " "
			}(),
			v.Name(),
			v.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%v cvars\n", len(cvars))
	return err
}
