// Package query filters stored records by decoded field values. Values live
// on disk as opaque wire images, so every comparison decodes the field
// through the record's schema first.
package query

import (
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/store"
)

// Operator names a comparison in a FieldQuery.
type Operator string

// Supported comparison operators.
const (
	OpEqual        Operator = "="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// FieldQuery is a single field comparison against decoded record values.
type FieldQuery struct {
	Field    string
	Operator Operator
	Value    codec.Value
}

// Validate checks the query is well formed before execution.
func (q *FieldQuery) Validate() error {
	if q.Field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	switch q.Operator {
	case OpEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
	default:
		return fmt.Errorf("invalid operator: %q", q.Operator)
	}
	if q.Value.IsNone() {
		return fmt.Errorf("comparison value cannot be empty")
	}
	return nil
}

// Result is one matching record.
type Result struct {
	ID  ksuid.KSUID
	Bag *codec.Bag
}

// Engine executes field queries against a record store.
type Engine struct {
	store *store.RecordStore
}

// NewEngine builds an engine over the given store.
func NewEngine(s *store.RecordStore) *Engine {
	return &Engine{store: s}
}

// Execute scans every record of the named schema and returns those whose
// decoded field satisfies the query.
func (e *Engine) Execute(schemaName string, q FieldQuery) ([]Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	sch := e.store.Schema(schemaName)
	if sch == nil {
		return nil, fmt.Errorf("%w: %q", codec.ErrUnresolvedRef, schemaName)
	}
	if sch.Field(q.Field) == nil {
		return nil, fmt.Errorf("schema %q has no field %q", schemaName, q.Field)
	}

	var results []Result
	var matchErr error
	err := e.store.Scan(schemaName, func(id ksuid.KSUID, bag *codec.Bag) bool {
		ok, err := matches(bag.Get(q.Field), q.Operator, q.Value)
		if err != nil {
			matchErr = fmt.Errorf("record %s: %w", id, err)
			return false
		}
		if ok {
			results = append(results, Result{ID: id, Bag: bag})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if matchErr != nil {
		return nil, matchErr
	}
	return results, nil
}

// matches compares a decoded field value against the query value. Kinds must
// agree; the codec never coerces between variants.
func matches(have codec.Value, op Operator, want codec.Value) (bool, error) {
	cmp, err := compare(have, want)
	if err != nil {
		return false, err
	}
	switch op {
	case OpEqual:
		return cmp == 0, nil
	case OpGreater:
		return cmp > 0, nil
	case OpLess:
		return cmp < 0, nil
	case OpGreaterEqual:
		return cmp >= 0, nil
	case OpLessEqual:
		return cmp <= 0, nil
	default:
		return false, fmt.Errorf("invalid operator: %q", op)
	}
}

func compare(have, want codec.Value) (int, error) {
	switch want.Kind() {
	case codec.KindInt:
		a, err := have.Int()
		if err != nil {
			return 0, err
		}
		b, _ := want.Int()
		return orderInt(a, b), nil
	case codec.KindUint:
		a, err := have.Uint()
		if err != nil {
			return 0, err
		}
		b, _ := want.Uint()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case codec.KindFloat:
		a, err := have.Float()
		if err != nil {
			return 0, err
		}
		b, _ := want.Float()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case codec.KindString:
		a, err := have.String()
		if err != nil {
			return 0, err
		}
		b, _ := want.String()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case codec.KindBool:
		a, err := have.Bool()
		if err != nil {
			return 0, err
		}
		b, _ := want.Bool()
		if a == b {
			return 0, nil
		}
		if !a {
			return -1, nil
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("cannot compare %s values", want.Kind())
	}
}

func orderInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
