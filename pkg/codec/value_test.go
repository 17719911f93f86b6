package codec

import (
	"errors"
	"testing"
	"time"
)

func TestValue_NoneDefaults(t *testing.T) {
	var v Value
	if !v.IsNone() {
		t.Fatal("zero Value should be None")
	}
	if n, err := v.Int(); err != nil || n != 0 {
		t.Errorf("Int on None: got (%d, %v)", n, err)
	}
	if u, err := v.Uint(); err != nil || u != 0 {
		t.Errorf("Uint on None: got (%d, %v)", u, err)
	}
	if f, err := v.Float(); err != nil || f != 0 {
		t.Errorf("Float on None: got (%v, %v)", f, err)
	}
	if b, err := v.Bool(); err != nil || b {
		t.Errorf("Bool on None: got (%v, %v)", b, err)
	}
	if s, err := v.String(); err != nil || s != "" {
		t.Errorf("String on None: got (%q, %v)", s, err)
	}
	if p, err := v.Point(); err != nil || p != (Point3F{}) {
		t.Errorf("Point on None: got (%v, %v)", p, err)
	}
	if ts, err := v.Time(); err != nil || ts.Unix() != 0 {
		t.Errorf("Time on None: got (%v, %v)", ts, err)
	}
}

func TestValue_TypeMismatch(t *testing.T) {
	v := String("hello")
	if _, err := v.Int(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Int on string: got %v, want ErrTypeMismatch", err)
	}
	if _, err := Int(1).String(); !errors.Is(err, ErrTypeMismatch) {
		t.Error("String on int should be a type mismatch")
	}
	if _, err := Bool(true).Record(); !errors.Is(err, ErrTypeMismatch) {
		t.Error("Record on bool should be a type mismatch")
	}
}

func TestValue_Accessors(t *testing.T) {
	if n, err := Int(-5).Int(); err != nil || n != -5 {
		t.Errorf("Int: got (%d, %v)", n, err)
	}
	if u, err := Uint(5).Uint(); err != nil || u != 5 {
		t.Errorf("Uint: got (%d, %v)", u, err)
	}
	if b, err := Bool(true).Bool(); err != nil || !b {
		t.Errorf("Bool: got (%v, %v)", b, err)
	}
	now := time.Unix(1700000000, 0).UTC()
	if ts, err := Time(now).Time(); err != nil || !ts.Equal(now) {
		t.Errorf("Time: got (%v, %v)", ts, err)
	}
	items, err := List(Int(1), Int(2)).List()
	if err != nil || len(items) != 2 {
		t.Errorf("List: got (%v, %v)", items, err)
	}
}

func TestPoint3F_ApproxEqual(t *testing.T) {
	a := Point3F{X: 1, Y: 1.5, Z: 2}
	b := Point3F{X: 1 + 1e-7, Y: 1.5, Z: 2 - 1e-7}
	if !a.ApproxEqual(b) {
		t.Error("points within epsilon should compare equal")
	}
	if a.ApproxEqual(Point3F{X: 1.1, Y: 1.5, Z: 2}) {
		t.Error("points outside epsilon should not compare equal")
	}
}
