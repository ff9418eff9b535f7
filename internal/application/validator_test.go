package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		record    model.DatasetRecord
		wantField string
	}{
		{"valid record", model.DatasetRecord{ID: "weather-2024", Name: "Weather", Payload: []byte(`{"license":"MIT"}`)}, ""},
		{"valid single-char id", model.DatasetRecord{ID: "x", Name: "X", Payload: []byte(`{}`)}, ""},
		{"empty id", model.DatasetRecord{Name: "Weather", Payload: []byte(`{}`)}, "id"},
		{"uppercase id", model.DatasetRecord{ID: "Weather-2024", Name: "Weather", Payload: []byte(`{}`)}, "id"},
		{"id with spaces", model.DatasetRecord{ID: "weather 2024", Name: "Weather", Payload: []byte(`{}`)}, "id"},
		{"id with slash", model.DatasetRecord{ID: "weather/2024", Name: "Weather", Payload: []byte(`{}`)}, "id"},
		{"leading hyphen", model.DatasetRecord{ID: "-weather", Name: "Weather", Payload: []byte(`{}`)}, "id"},
		{"empty name", model.DatasetRecord{ID: "weather-2024", Payload: []byte(`{}`)}, "name"},
		{"payload is array", model.DatasetRecord{ID: "weather-2024", Name: "Weather", Payload: []byte(`[]`)}, "payload"},
		{"payload is garbage", model.DatasetRecord{ID: "weather-2024", Name: "Weather", Payload: []byte(`{`)}, "payload"},
		{"payload is empty", model.DatasetRecord{ID: "weather-2024", Name: "Weather"}, "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.record)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
