package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/schema"
)

func TestBagFromJSON_AllShapes(t *testing.T) {
	pet := schema.New("Pet", schema.Field{Name: "kind", Type: "uint8"})
	player := schema.New("Player",
		schema.Field{Name: "level", Type: "uint16"},
		schema.Field{Name: "name", Type: "string"},
		schema.Field{Name: "pos", Type: "point3f"},
		schema.Field{Name: "joined", Type: "timestamp"},
		schema.Field{Name: "scores", Type: "array", Meta: schema.Meta{"itemType": "int32"}},
		schema.Field{Name: "pet", Type: "ref(Pet)"},
	)
	reg := schema.NewRegistry()
	reg.Register(pet)
	reg.Register(player)

	bag, err := BagFromJSON(reg, player, map[string]interface{}{
		"level":  float64(12),
		"name":   "Aldric",
		"pos":    map[string]interface{}{"x": 1.0, "y": 1.5, "z": 2.0},
		"joined": "2024-03-01T12:00:00Z",
		"scores": []interface{}{float64(3), float64(-4)},
		"pet":    map[string]interface{}{"kind": float64(2)},
	})
	require.NoError(t, err)

	level, err := bag.Get("level").Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), level)

	pos, err := bag.Get("pos").Point()
	require.NoError(t, err)
	assert.True(t, pos.ApproxEqual(codec.Point3F{X: 1, Y: 1.5, Z: 2}))

	rec, err := bag.Get("pet").Record()
	require.NoError(t, err)
	kind, err := rec.Get("kind").Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), kind)

	// Round-trip back to JSON.
	out, err := BagToJSON(bag)
	require.NoError(t, err)
	assert.Equal(t, "Aldric", out["name"])
	assert.Equal(t, "2024-03-01T12:00:00Z", out["joined"])
	assert.Equal(t, []interface{}{int64(3), int64(-4)}, out["scores"])
}

func TestBagFromJSON_Errors(t *testing.T) {
	player := schema.New("Player",
		schema.Field{Name: "level", Type: "uint16"},
	)
	reg := schema.NewRegistry()
	reg.Register(player)

	_, err := BagFromJSON(reg, player, map[string]interface{}{"class": "rogue"})
	assert.Error(t, err, "unknown field names are rejected")

	_, err = BagFromJSON(reg, player, map[string]interface{}{"level": "twelve"})
	assert.Error(t, err)

	_, err = BagFromJSON(reg, player, map[string]interface{}{"level": float64(-1)})
	assert.Error(t, err, "negative values cannot fill unsigned fields")
}
