package codec

import (
	"testing"

	"github.com/mkarls/wireweave/pkg/schema"
)

func TestBag_SetGetRemove(t *testing.T) {
	s := schema.New("Stats", schema.Field{Name: "vigor", Type: "int32"})
	b := NewBag(s)

	if !b.Get("vigor").IsNone() {
		t.Error("absent key should read as None")
	}

	b.Set("vigor", Int(7))
	if n, _ := b.Get("vigor").Int(); n != 7 {
		t.Errorf("got %d, want 7", n)
	}
	if !b.Has("vigor") || b.Len() != 1 {
		t.Error("bag should hold one value")
	}

	// Writing None clears the slot.
	b.Set("vigor", None)
	if b.Has("vigor") || b.Len() != 0 {
		t.Error("setting None should remove the entry")
	}
}
