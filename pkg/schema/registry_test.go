package schema

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	reg.Register(New("Stats", Field{Name: "vigor", Type: "int32"}))
	if s := reg.Lookup("Stats"); s == nil || len(s.Fields) != 1 {
		t.Fatal("registered schema not found")
	}
	if reg.Lookup("Missing") != nil {
		t.Error("lookup of unregistered name should return nil")
	}

	// Last registration wins.
	reg.Register(New("Stats", Field{Name: "vigor", Type: "int32"}, Field{Name: "maxVigor", Type: "int32"}))
	if s := reg.Lookup("Stats"); len(s.Fields) != 2 {
		t.Error("re-registration should overwrite")
	}

	// Nameless schemas are ignored.
	reg.Register(New(""))
	if reg.Lookup("") != nil {
		t.Error("empty-name schema should not be registered")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(New("PlayerInfo", Field{Name: "level", Type: "uint16"}))
	reg.Register(New("Monster", Field{Name: "hp", Type: "uint32"}))

	testCases := []struct {
		token string
		want  string
	}{
		{"PlayerInfo", "PlayerInfo"},
		{"playerinfo.xml", "PlayerInfo"},
		{"playerinfo.0x00.xml", "PlayerInfo"},
		{"monster.def", "Monster"},
		{"monster.0x02.def", "Monster"},
		{"Monster", "Monster"},
	}
	for _, tc := range testCases {
		s := reg.Resolve(tc.token)
		if s == nil || s.Name != tc.want {
			t.Errorf("Resolve(%q): got %v, want %s", tc.token, s, tc.want)
		}
	}

	if reg.Resolve("ghost.xml") != nil {
		t.Error("unresolvable token should return nil")
	}
}

func TestRegistry_CustomNaming(t *testing.T) {
	aliases := map[string]string{
		"playerinfo":  "PlayerInfo",
		"guildroster": "GuildRoster",
	}
	reg := NewRegistryWithNaming(FileNaming(aliases))
	reg.Register(New("GuildRoster", Field{Name: "count", Type: "uint8"}))

	if s := reg.Resolve("guildroster.0x01.xml"); s == nil || s.Name != "GuildRoster" {
		t.Errorf("alias table lookup failed: got %v", s)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Register(New(fmt.Sprintf("S%d", i), Field{Name: "x", Type: "int8"}))
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Lookup(fmt.Sprintf("S%d", i))
				reg.Names()
			}
		}(i)
	}
	wg.Wait()
}

func TestRefTokens(t *testing.T) {
	if !IsRef("ref(PlayerInfo)") || !IsRef("Ref( PlayerInfo )") {
		t.Error("ref tags should be recognized case-insensitively")
	}
	if IsRef("uint32") || IsRef("reference") {
		t.Error("non-ref tags misclassified")
	}
	if got := RefTarget("ref( monster.0x02.def )"); got != "monster.0x02.def" {
		t.Errorf("RefTarget: got %q", got)
	}
	if RefTarget("uint32") != "" {
		t.Error("RefTarget of a non-ref tag should be empty")
	}
}

func TestMeta_Getters(t *testing.T) {
	m := Meta{"encoding": "utf16", "size": int64(2), "float": 4.0}
	if m.String("encoding", "utf8") != "utf16" {
		t.Error("String getter failed")
	}
	if m.String("missing", "utf8") != "utf8" {
		t.Error("String default failed")
	}
	if m.Int("size", 0) != 2 {
		t.Error("Int getter should accept int64")
	}
	if m.Int("float", 0) != 4 {
		t.Error("Int getter should accept float64")
	}
	if m.Int("missing", 7) != 7 {
		t.Error("Int default failed")
	}
	var empty Meta
	if empty.Int("size", 4) != 4 || empty.String("encoding", "utf8") != "utf8" {
		t.Error("nil Meta should yield defaults")
	}
}
