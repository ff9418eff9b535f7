package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataPath(t *testing.T) {
	r := DatasetRecord{ID: "weather-2024"}
	assert.Equal(t, "data/weather-2024/metadata.json", r.MetadataPath())
}

func TestFields(t *testing.T) {
	t.Run("id and name lead, remaining fields sorted", func(t *testing.T) {
		r := DatasetRecord{
			ID:      "weather-2024",
			Name:    "Weather",
			Payload: []byte(`{"id":"weather-2024","name":"Weather","source_url":"https://example.org","license":"MIT","rows":1200}`),
		}

		fields := r.Fields()
		keys := make([]string, len(fields))
		for i, f := range fields {
			keys[i] = f.Key
		}
		assert.Equal(t, []string{"id", "name", "license", "rows", "source_url"}, keys)
	})

	t.Run("value rendering", func(t *testing.T) {
		r := DatasetRecord{
			ID:      "x",
			Name:    "X",
			Payload: []byte(`{"str":"plain","num":3.5,"bool":true,"nested":{"a":1},"list":[1,2]}`),
		}

		byKey := map[string]string{}
		for _, f := range r.Fields() {
			byKey[f.Key] = f.Value
		}
		assert.Equal(t, "plain", byKey["str"], "strings are unquoted")
		assert.Equal(t, "3.5", byKey["num"])
		assert.Equal(t, "true", byKey["bool"])
		assert.Equal(t, `{"a":1}`, byKey["nested"])
		assert.Equal(t, "[1,2]", byKey["list"])
	})

	t.Run("non-object payload yields only id and name", func(t *testing.T) {
		r := DatasetRecord{ID: "x", Name: "X", Payload: []byte(`broken`)}
		fields := r.Fields()
		assert.Len(t, fields, 2)
	})
}

func TestRetryTaskRecord(t *testing.T) {
	task := RetryTask{
		TaskID:    "task-1",
		DatasetID: "weather-2024",
		Name:      "Weather",
		Payload:   []byte(`{"id":"weather-2024"}`),
	}

	record := task.Record()
	assert.Equal(t, "weather-2024", record.ID)
	assert.Equal(t, "Weather", record.Name)
	assert.Equal(t, task.Payload, record.Payload)
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "validation failed on id: must not be empty",
		ValidationError{Field: "id", Reason: "must not be empty"}.Error())
	assert.Equal(t, "validation failed: bad input",
		ValidationError{Reason: "bad input"}.Error())
}
