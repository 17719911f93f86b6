package api

import (
	"fmt"
	"time"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/schema"
)

// BagFromJSON builds a property bag from a decoded JSON object, coercing
// each entry by its schema field type. Unknown field names are rejected so a
// typo cannot silently drop data on the floor.
func BagFromJSON(reg *schema.Registry, s *schema.Schema, fields map[string]interface{}) (*codec.Bag, error) {
	bag := codec.NewBag(s)
	for name, raw := range fields {
		f := s.Field(name)
		if f == nil {
			return nil, fmt.Errorf("schema %q has no field %q", s.Name, name)
		}
		v, err := valueFromJSON(reg, f.Type, f.Meta, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		bag.Set(name, v)
	}
	return bag, nil
}

func valueFromJSON(reg *schema.Registry, tag string, meta schema.Meta, raw interface{}) (codec.Value, error) {
	if raw == nil {
		return codec.None, nil
	}
	if schema.IsRef(tag) {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return codec.None, fmt.Errorf("reference value must be an object")
		}
		sub := reg.Resolve(schema.RefTarget(tag))
		if sub == nil {
			return codec.None, fmt.Errorf("%w: %q", codec.ErrUnresolvedRef, schema.RefTarget(tag))
		}
		rec, err := BagFromJSON(reg, sub, obj)
		if err != nil {
			return codec.None, err
		}
		return codec.Record(rec), nil
	}
	switch schema.Canonical(tag) {
	case schema.TypeInt8, schema.TypeInt16, schema.TypeInt32, schema.TypeInt64:
		n, err := jsonNumber(raw)
		if err != nil {
			return codec.None, err
		}
		return codec.Int(int64(n)), nil
	case schema.TypeUint8, schema.TypeUint16, schema.TypeUint32, schema.TypeUint64:
		n, err := jsonNumber(raw)
		if err != nil {
			return codec.None, err
		}
		if n < 0 {
			return codec.None, fmt.Errorf("negative value %v for unsigned field", n)
		}
		return codec.Uint(uint64(n)), nil
	case schema.TypeFloat, schema.TypeDouble:
		n, err := jsonNumber(raw)
		if err != nil {
			return codec.None, err
		}
		return codec.Float(n), nil
	case schema.TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return codec.None, fmt.Errorf("expected boolean, got %T", raw)
		}
		return codec.Bool(b), nil
	case schema.TypeString:
		s, ok := raw.(string)
		if !ok {
			return codec.None, fmt.Errorf("expected string, got %T", raw)
		}
		return codec.String(s), nil
	case schema.TypePoint3F:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return codec.None, fmt.Errorf("point3f value must be an object with x, y, z")
		}
		var p codec.Point3F
		for key, dst := range map[string]*float32{"x": &p.X, "y": &p.Y, "z": &p.Z} {
			n, err := jsonNumber(obj[key])
			if err != nil {
				return codec.None, fmt.Errorf("point3f %s: %w", key, err)
			}
			*dst = float32(n)
		}
		return codec.Point(p), nil
	case schema.TypeTimestamp:
		switch t := raw.(type) {
		case string:
			ts, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return codec.None, fmt.Errorf("timestamp: %w", err)
			}
			return codec.Time(ts), nil
		default:
			n, err := jsonNumber(raw)
			if err != nil {
				return codec.None, err
			}
			return codec.Time(time.Unix(int64(n), 0).UTC()), nil
		}
	case schema.TypeArray:
		list, ok := raw.([]interface{})
		if !ok {
			return codec.None, fmt.Errorf("expected array, got %T", raw)
		}
		itemType := meta.String(schema.MetaItemType, "")
		items := make([]codec.Value, 0, len(list))
		for i, item := range list {
			v, err := valueFromJSON(reg, itemType, nil, item)
			if err != nil {
				return codec.None, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return codec.List(items...), nil
	default:
		return codec.None, fmt.Errorf("%w: %s", codec.ErrUnsupportedType, tag)
	}
}

func jsonNumber(raw interface{}) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

// BagToJSON flattens a bag into a JSON-encodable field map.
func BagToJSON(bag *codec.Bag) (map[string]interface{}, error) {
	s := bag.Schema()
	out := make(map[string]interface{}, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if !bag.Has(f.Name) {
			continue
		}
		v, err := valueToJSON(bag.Get(f.Name))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

func valueToJSON(v codec.Value) (interface{}, error) {
	switch v.Kind() {
	case codec.KindNone:
		return nil, nil
	case codec.KindInt:
		n, err := v.Int()
		return n, err
	case codec.KindUint:
		n, err := v.Uint()
		return n, err
	case codec.KindFloat:
		f, err := v.Float()
		return f, err
	case codec.KindBool:
		b, err := v.Bool()
		return b, err
	case codec.KindString:
		s, err := v.String()
		return s, err
	case codec.KindPoint:
		p, err := v.Point()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"x": p.X, "y": p.Y, "z": p.Z}, nil
	case codec.KindTime:
		t, err := v.Time()
		if err != nil {
			return nil, err
		}
		return t.UTC().Format(time.RFC3339), nil
	case codec.KindList:
		items, err := v.List()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			j, err := valueToJSON(item)
			if err != nil {
				return nil, err
			}
			out = append(out, j)
		}
		return out, nil
	case codec.KindRecord:
		rec, err := v.Record()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, nil
		}
		return BagToJSON(rec)
	default:
		return nil, fmt.Errorf("cannot represent %s in JSON", v.Kind())
	}
}
