package model

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
)

// DatasetRecord is a locally edited dataset entry ready to publish.
// The payload is owned by the catalog store; this subsystem treats it as an
// opaque JSON document and only needs the id and display name.
type DatasetRecord struct {
	ID      string
	Name    string
	Payload []byte
}

// MetadataPath returns the record's path relative to the catalog root,
// following the catalog convention data/<id>/metadata.json.
func (r DatasetRecord) MetadataPath() string {
	return path.Join("data", r.ID, "metadata.json")
}

// Fields returns the payload's top-level fields as sorted key/value pairs,
// used to render the pull request body table. Non-object payloads yield only
// the id and name.
func (r DatasetRecord) Fields() []RecordField {
	fields := []RecordField{
		{Key: "id", Value: r.ID},
		{Key: "name", Value: r.Name},
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(r.Payload, &top); err != nil {
		return fields
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		if k == "id" || k == "name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fields = append(fields, RecordField{Key: k, Value: compactValue(top[k])})
	}
	return fields
}

// RecordField is one row of the pull request body field table.
type RecordField struct {
	Key   string
	Value string
}

// compactValue renders a raw JSON value as a single-line cell value.
// Strings are unquoted; everything else keeps its JSON form.
func compactValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
