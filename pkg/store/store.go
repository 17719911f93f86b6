// Package store persists encoded records in a pebble key-value database.
// Records are stored as raw wire images keyed by schema name and a ksuid, so
// the on-disk bytes are exactly what the codec would send on the wire.
package store

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/schema"
)

// RecordStore couples a pebble database with a codec. Keys are
// "<schema-name>/<ksuid>" so records of one schema share a scannable prefix.
type RecordStore struct {
	db    *pebble.DB
	codec *codec.Codec
}

// Open opens (creating if necessary) the database at path.
func Open(path string, c *codec.Codec) (*RecordStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &RecordStore{db: db, codec: c}, nil
}

func recordKey(schemaName string, id ksuid.KSUID) []byte {
	return []byte(schemaName + "/" + id.String())
}

// Put serializes the bag and stores the wire image under a fresh id.
func (s *RecordStore) Put(bag *codec.Bag) (ksuid.KSUID, error) {
	data, err := s.codec.Serialize(bag)
	if err != nil {
		return ksuid.Nil, err
	}
	id := ksuid.New()
	if err := s.db.Set(recordKey(bag.Schema().Name, id), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store record: %w", err)
	}
	return id, nil
}

// Update overwrites the record stored under id with the bag's current state.
func (s *RecordStore) Update(id ksuid.KSUID, bag *codec.Bag) error {
	data, err := s.codec.Serialize(bag)
	if err != nil {
		return err
	}
	if err := s.db.Set(recordKey(bag.Schema().Name, id), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// Raw returns the stored wire image without decoding it.
func (s *RecordStore) Raw(schemaName string, id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(recordKey(schemaName, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	defer closer.Close()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Get loads a record and decodes it against the named schema.
func (s *RecordStore) Get(schemaName string, id ksuid.KSUID) (*codec.Bag, error) {
	sch := s.codec.Registry().Lookup(schemaName)
	if sch == nil {
		return nil, fmt.Errorf("%w: %q", codec.ErrUnresolvedRef, schemaName)
	}
	data, err := s.Raw(schemaName, id)
	if err != nil {
		return nil, err
	}
	return s.codec.Deserialize(data, sch)
}

// Delete removes the record stored under id.
func (s *RecordStore) Delete(schemaName string, id ksuid.KSUID) error {
	return s.db.Delete(recordKey(schemaName, id), pebble.Sync)
}

// Scan visits every record of the named schema in key order. The callback
// receives the record id and decoded bag; returning false stops the scan.
func (s *RecordStore) Scan(schemaName string, visit func(id ksuid.KSUID, bag *codec.Bag) bool) error {
	sch := s.codec.Registry().Lookup(schemaName)
	if sch == nil {
		return fmt.Errorf("%w: %q", codec.ErrUnresolvedRef, schemaName)
	}
	prefix := []byte(schemaName + "/")
	upper := append(append([]byte{}, prefix...), 0xFF)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return fmt.Errorf("failed to open iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.Parse(string(iter.Key()[len(prefix):]))
		if err != nil {
			return fmt.Errorf("malformed record key %q: %w", iter.Key(), err)
		}
		bag, err := s.codec.Deserialize(iter.Value(), sch)
		if err != nil {
			return fmt.Errorf("record %s: %w", id, err)
		}
		if !visit(id, bag) {
			break
		}
	}
	return iter.Error()
}

// Codec returns the codec the store encodes and decodes with.
func (s *RecordStore) Codec() *codec.Codec { return s.codec }

// Schema is a convenience lookup through the codec's registry.
func (s *RecordStore) Schema(name string) *schema.Schema {
	return s.codec.Registry().Lookup(name)
}

// Close flushes and closes the underlying database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}
