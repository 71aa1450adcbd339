// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestClampMin(t *testing.T) {
	v := Clamp(1, 0, 10)
	if v != 1 {
		t.Errorf("Clamp(1,0,10) = %v", v)
	}
}

func TestClampMan(t *testing.T) {
	v := Clamp(1, 100, 10)
	if v != 10 {
		t.Errorf("Clamp(1,100,10) = %v", v)
	}
}

func TestClampVal(t *testing.T) {
	v := Clamp(1, 5, 10)
	if v != 5 {
		t.Errorf("Clamp(1,5,10) = %v", v)
	}
}

func TestLerp(t *testing.T) {
	if v := Lerp(2, 6, 0.25); v != 3 {
		t.Errorf("Lerp(2,6,0.25) = %v", v)
	}
}

func TestSaturate(t *testing.T) {
	if v := Saturate(1.5); v != 1 {
		t.Errorf("Saturate(1.5) = %v", v)
	}
	if v := Saturate(-0.5); v != 0 {
		t.Errorf("Saturate(-0.5) = %v", v)
	}
}
