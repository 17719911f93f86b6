package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/query"
	"github.com/mkarls/wireweave/pkg/schema"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRegisterSchema accepts a YAML schema description in the request body.
func (s *Server) handleRegisterSchema(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	sch, err := schema.Parse(body)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	reg := s.store.Codec().Registry()
	reg.Register(sch)
	if s.metrics != nil {
		s.metrics.UpdateSchemaCount(len(reg.Names()))
	}
	s.log.Info().Str("schema", sch.Name).Int("fields", len(sch.Fields)).Msg("schema registered")
	sendSuccess(w, map[string]string{"name": sch.Name})
}

func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, s.store.Codec().Registry().Names())
}

func (s *Server) lookupSchema(w http.ResponseWriter, name string) *schema.Schema {
	sch := s.store.Codec().Registry().Lookup(name)
	if sch == nil {
		sendError(w, "Schema not found: "+name, http.StatusNotFound)
	}
	return sch
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	sch := s.lookupSchema(w, chi.URLParam(r, "name"))
	if sch == nil {
		return
	}
	info := SchemaInfo{Name: sch.Name, Kind: sch.Kind}
	for i := range sch.Fields {
		f := &sch.Fields[i]
		info.Fields = append(info.Fields, FieldInfo{Name: f.Name, Type: f.Type, Meta: f.Meta})
	}
	sendSuccess(w, info)
}

func (s *Server) handleSchemaLength(w http.ResponseWriter, r *http.Request) {
	sch := s.lookupSchema(w, chi.URLParam(r, "name"))
	if sch == nil {
		return
	}
	n, err := s.store.Codec().FixedLength(sch)
	if err != nil {
		if errors.Is(err, codec.ErrNotFixedWidth) {
			sendSuccess(w, map[string]interface{}{"fixed": false})
			return
		}
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"fixed": true, "length": n})
}

// decodeFieldBody parses a JSON request body into a bag for the schema.
func (s *Server) decodeFieldBody(w http.ResponseWriter, r *http.Request, sch *schema.Schema) *codec.Bag {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return nil
	}
	bag, err := BagFromJSON(s.store.Codec().Registry(), sch, fields)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	return bag
}

// handleEncode serializes a JSON field map and returns the wire image.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	sch := s.lookupSchema(w, chi.URLParam(r, "schema"))
	if sch == nil {
		return
	}
	bag := s.decodeFieldBody(w, r, sch)
	if bag == nil {
		return
	}
	start := time.Now()
	data, err := s.store.Codec().Serialize(bag)
	if s.metrics != nil {
		s.metrics.RecordCodecOperation("serialize", sch.Name, err == nil, time.Since(start))
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, EncodeResponse{
		Schema: sch.Name,
		Size:   len(data),
		Data:   base64.StdEncoding.EncodeToString(data),
	})
}

// handleDecode deserializes a base64 wire image back into a field map.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	sch := s.lookupSchema(w, chi.URLParam(r, "schema"))
	if sch == nil {
		return
	}
	var req struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		sendError(w, "Invalid base64 data", http.StatusBadRequest)
		return
	}
	start := time.Now()
	bag, err := s.store.Codec().Deserialize(raw, sch)
	if s.metrics != nil {
		s.metrics.RecordCodecOperation("deserialize", sch.Name, err == nil, time.Since(start))
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	fields, err := BagToJSON(bag)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"schema": sch.Name, "fields": fields})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	sch := s.lookupSchema(w, chi.URLParam(r, "schema"))
	if sch == nil {
		return
	}
	bag := s.decodeFieldBody(w, r, sch)
	if bag == nil {
		return
	}
	id, err := s.store.Put(bag)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, map[string]string{"id": id.String()})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	schemaName := chi.URLParam(r, "schema")
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return
	}
	bag, err := s.store.Get(schemaName, id)
	if err != nil {
		sendError(w, "Record not found", http.StatusNotFound)
		return
	}
	fields, err := BagToJSON(bag)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, RecordResponse{ID: id.String(), Schema: schemaName, Fields: fields})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return
	}
	if err := s.store.Delete(chi.URLParam(r, "schema"), id); err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"id": id.String()})
}

// handleQueryRecords filters records by a single field comparison given as
// ?field=level&op=>=&value=25.
func (s *Server) handleQueryRecords(w http.ResponseWriter, r *http.Request) {
	schemaName := chi.URLParam(r, "schema")
	sch := s.lookupSchema(w, schemaName)
	if sch == nil {
		return
	}

	fieldName := r.URL.Query().Get("field")
	if fieldName == "" {
		// No filter: return everything.
		results := make([]RecordResponse, 0)
		err := s.store.Scan(schemaName, func(id ksuid.KSUID, bag *codec.Bag) bool {
			fields, convErr := BagToJSON(bag)
			if convErr != nil {
				return true
			}
			results = append(results, RecordResponse{ID: id.String(), Schema: schemaName, Fields: fields})
			return true
		})
		if err != nil {
			sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sendSuccess(w, results)
		return
	}

	f := sch.Field(fieldName)
	if f == nil {
		sendError(w, "Unknown field: "+fieldName, http.StatusBadRequest)
		return
	}
	value, err := queryValue(f.Type, r.URL.Query().Get("value"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	op := r.URL.Query().Get("op")
	if op == "" {
		op = string(query.OpEqual)
	}

	matches, err := s.engine.Execute(schemaName, query.FieldQuery{
		Field:    fieldName,
		Operator: query.Operator(op),
		Value:    value,
	})
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	results := make([]RecordResponse, 0, len(matches))
	for _, m := range matches {
		fields, err := BagToJSON(m.Bag)
		if err != nil {
			sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		results = append(results, RecordResponse{ID: m.ID.String(), Schema: schemaName, Fields: fields})
	}
	sendSuccess(w, results)
}

// queryValue parses a query-string literal into the Value kind the field's
// type tag decodes to.
func queryValue(tag, literal string) (codec.Value, error) {
	switch schema.Canonical(tag) {
	case schema.TypeInt8, schema.TypeInt16, schema.TypeInt32, schema.TypeInt64:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return codec.None, err
		}
		return codec.Int(n), nil
	case schema.TypeUint8, schema.TypeUint16, schema.TypeUint32, schema.TypeUint64:
		n, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return codec.None, err
		}
		return codec.Uint(n), nil
	case schema.TypeFloat, schema.TypeDouble:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return codec.None, err
		}
		return codec.Float(f), nil
	case schema.TypeBool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return codec.None, err
		}
		return codec.Bool(b), nil
	case schema.TypeString:
		return codec.String(literal), nil
	default:
		return codec.None, errors.New("field type cannot be used in a query filter")
	}
}
