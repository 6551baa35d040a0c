// Package normalize converts raw upstream collection items into canonical
// records. Items arrive in several shapes: plain objects, JSON-encoded
// strings, objects whose "source" field is itself a JSON string, and objects
// carrying Mongo extended-JSON wrappers ({"$oid": ...}, {"$date": ...}).
//
// Each step is total: already-canonical input passes through unchanged, so
// the pipeline is idempotent.
package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record canonicalizes a single raw item by running the full pipeline:
// unwrap-string, unwrap-source-field, unwrap-mongo-types.
func Record(raw any) (map[string]any, error) {
	item, err := UnwrapString(raw)
	if err != nil {
		return nil, err
	}
	item, err = UnwrapSource(item)
	if err != nil {
		return nil, err
	}
	return UnwrapMongo(item), nil
}

// Batch canonicalizes a list of raw items. A failure on one record is logged
// and skipped so a single corrupt row cannot drop the rest of a bulk fetch.
func Batch(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, err := Record(item)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping unparseable record")
			continue
		}
		out = append(out, rec)
	}
	return out
}

// UnwrapString parses a JSON-encoded string item into an object; object items
// pass through.
func UnwrapString(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("record is not valid JSON: %w", err)
		}
		return m, nil
	case []byte:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, fmt.Errorf("record is not valid JSON: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("record has unsupported type %T", raw)
	}
}

// UnwrapSource merges a doubly-encoded "source" field into the record. The
// fields of the decoded source win over the envelope's own fields.
func UnwrapSource(item map[string]any) (map[string]any, error) {
	src, ok := item["source"].(string)
	if !ok {
		return item, nil
	}

	var inner map[string]any
	if err := json.Unmarshal([]byte(src), &inner); err != nil {
		return nil, fmt.Errorf("source field is not valid JSON: %w", err)
	}

	merged := make(map[string]any, len(item)+len(inner))
	for k, v := range item {
		if k == "source" {
			continue
		}
		merged[k] = v
	}
	for k, v := range inner {
		merged[k] = v
	}
	return merged, nil
}

// UnwrapMongo strips Mongo extended-JSON wrappers anywhere in the record:
// {"$oid": X} becomes the hex id string and {"$date": X} becomes an ISO-8601
// string. Dates stay strings at this layer; converting them to display dates
// is the caller's concern. The top-level "_id" key is renamed to "id".
func UnwrapMongo(item map[string]any) map[string]any {
	out := unwrapValue(item).(map[string]any)
	if id, ok := out["_id"]; ok {
		delete(out, "_id")
		if _, exists := out["id"]; !exists {
			out["id"] = id
		}
	}
	return out
}

func unwrapValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if oid, ok := extractOID(val); ok {
			return oid
		}
		if date, ok := extractDate(val); ok {
			return date
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = unwrapValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = unwrapValue(inner)
		}
		return out
	default:
		return v
	}
}

func extractOID(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	raw, ok := m["$oid"].(string)
	if !ok {
		return "", false
	}
	if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
		return oid.Hex(), true
	}
	// Not a real ObjectID hex; keep the raw value rather than dropping it.
	return raw, true
}

func extractDate(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	raw, ok := m["$date"]
	if !ok {
		return "", false
	}
	switch d := raw.(type) {
	case string:
		return d, true
	case float64:
		return primitive.DateTime(int64(d)).Time().UTC().Format(time.RFC3339), true
	case map[string]any:
		// {"$date": {"$numberLong": "1700000000000"}}
		if s, ok := d["$numberLong"].(string); ok {
			var millis int64
			if _, err := fmt.Sscan(s, &millis); err == nil {
				return primitive.DateTime(millis).Time().UTC().Format(time.RFC3339), true
			}
		}
	}
	return fmt.Sprint(raw), true
}
