package store

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/schema"
)

func testStore(t *testing.T) (*RecordStore, *schema.Schema) {
	t.Helper()
	stats := schema.New("Stats",
		schema.Field{Name: "vigor", Type: "int32"},
		schema.Field{Name: "maxVigor", Type: "int32"},
	)
	reg := schema.NewRegistry()
	reg.Register(stats)

	s, err := Open(filepath.Join(t.TempDir(), "records"), codec.New(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, stats
}

func TestRecordStore_PutGet(t *testing.T) {
	s, stats := testStore(t)

	bag := codec.NewBag(stats)
	bag.Set("vigor", codec.Int(5))
	bag.Set("maxVigor", codec.Int(50))

	id, err := s.Put(bag)
	require.NoError(t, err)

	back, err := s.Get("Stats", id)
	require.NoError(t, err)
	vigor, err := back.Get("vigor").Int()
	require.NoError(t, err)
	assert.Equal(t, int64(5), vigor)

	// The stored image is the exact wire encoding.
	raw, err := s.Raw("Stats", id)
	require.NoError(t, err)
	wire, err := s.Codec().Serialize(bag)
	require.NoError(t, err)
	assert.Equal(t, wire, raw)
}

func TestRecordStore_UpdateDelete(t *testing.T) {
	s, stats := testStore(t)

	bag := codec.NewBag(stats)
	bag.Set("vigor", codec.Int(1))
	id, err := s.Put(bag)
	require.NoError(t, err)

	bag.Set("vigor", codec.Int(2))
	require.NoError(t, s.Update(id, bag))

	back, err := s.Get("Stats", id)
	require.NoError(t, err)
	vigor, _ := back.Get("vigor").Int()
	assert.Equal(t, int64(2), vigor)

	require.NoError(t, s.Delete("Stats", id))
	_, err = s.Get("Stats", id)
	assert.Error(t, err)
}

func TestRecordStore_Scan(t *testing.T) {
	s, stats := testStore(t)

	for i := int64(1); i <= 3; i++ {
		bag := codec.NewBag(stats)
		bag.Set("vigor", codec.Int(i))
		_, err := s.Put(bag)
		require.NoError(t, err)
	}

	var total int64
	var count int
	err := s.Scan("Stats", func(id ksuid.KSUID, bag *codec.Bag) bool {
		v, err := bag.Get("vigor").Int()
		require.NoError(t, err)
		total += v
		count++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int64(6), total)
}

func TestRecordStore_UnknownSchema(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Get("Ghost", ksuid.New())
	assert.ErrorIs(t, err, codec.ErrUnresolvedRef)
}
