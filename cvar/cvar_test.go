// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"bytes"
	"strings"
	"testing"
)

func TestRegister(t *testing.T) {
	cv, err := Register("test_register", "2.5", ARCHIVE)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if cv.Value() != 2.5 || cv.String() != "2.5" || !cv.Archive() {
		t.Errorf("Register: got %v %q archive=%v", cv.Value(), cv.String(), cv.Archive())
	}
	if _, err := Register("test_register", "1", NONE); err == nil {
		t.Errorf("Register twice: want error")
	}
	if got, ok := Get("test_register"); !ok || got != cv {
		t.Errorf("Get: %v %v", got, ok)
	}
}

func TestSetValue(t *testing.T) {
	cv := MustRegister("test_setvalue", "0", NONE)
	cv.SetValue(3)
	if cv.String() != "3" {
		t.Errorf("SetValue(3) = %q", cv.String())
	}
	cv.SetValue(0.5)
	if cv.String() != "0.5" {
		t.Errorf("SetValue(0.5) = %q", cv.String())
	}
	cv.Reset()
	if cv.Bool() {
		t.Errorf("Reset: want false")
	}
}

func TestToggleAndCallback(t *testing.T) {
	cv := MustRegister("test_toggle", "0", NONE)
	calls := 0
	cv.SetCallback(func(*Cvar) { calls++ })
	cv.Toggle()
	if !cv.Bool() {
		t.Errorf("Toggle: want true")
	}
	cv.Toggle()
	if cv.Bool() {
		t.Errorf("Toggle twice: want false")
	}
	if calls != 2 {
		t.Errorf("callback called %d times, want 2", calls)
	}
}

func TestCycle(t *testing.T) {
	cv := MustRegister("test_cycle", "2", NONE)
	cv.Cycle("1", "2", "3")
	if cv.String() != "3" {
		t.Errorf("Cycle from 2 = %q", cv.String())
	}
	cv.Cycle("1", "2", "3")
	if cv.String() != "1" {
		t.Errorf("Cycle wraps to %q", cv.String())
	}
	cv.SetByString("7")
	cv.Cycle("1", "2", "3")
	if cv.String() != "1" {
		t.Errorf("Cycle from unknown = %q", cv.String())
	}
}

func TestReadOnly(t *testing.T) {
	cv := MustRegister("test_rom", "1", NONE)
	cv.Force("0")
	if cv.Bool() || !cv.ReadOnly() {
		t.Fatalf("Force: %q rom=%v", cv.String(), cv.ReadOnly())
	}
	cv.SetByString("1")
	if cv.Bool() {
		t.Errorf("read only cvar changed")
	}
	if err := Set("test_rom", "1"); err == nil {
		t.Errorf("Set read only: want error")
	}
}

func TestExecute(t *testing.T) {
	cv := MustRegister("test_execute", "0", NONE)
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "test_execute=4", want: "4"},
		{in: "test_execute 5", want: "5"},
		{in: " test_execute = 6 ", want: "6"},
		{in: "test_execute", want: "6", err: true},
		{in: "test_missing=1", want: "6", err: true},
	}
	for _, tc := range tests {
		err := Execute(tc.in)
		if (err != nil) != tc.err {
			t.Errorf("Execute(%q) error = %v", tc.in, err)
		}
		if cv.String() != tc.want {
			t.Errorf("Execute(%q): value %q, want %q", tc.in, cv.String(), tc.want)
		}
	}
}

func TestList(t *testing.T) {
	MustRegister("test_list", "9", ARCHIVE)
	var b bytes.Buffer
	if err := List(&b); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(b.String(), "*  test_list \"9\"\n") {
		t.Errorf("List output misses test_list:\n%s", b.String())
	}
}
