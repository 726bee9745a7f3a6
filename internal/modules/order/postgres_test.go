package order

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineName(t *testing.T) {
	tests := []struct {
		name            string
		stored, current sql.NullString
		want            string
	}{
		{"captured name wins over a renamed product", sql.NullString{String: "Widget", Valid: true}, sql.NullString{String: "Widget v2", Valid: true}, "Widget"},
		{"captured name survives a deleted product", sql.NullString{String: "Widget", Valid: true}, sql.NullString{}, "Widget"},
		{"legacy row falls back to the product", sql.NullString{}, sql.NullString{String: "Gadget", Valid: true}, "Gadget"},
		{"blank captured name falls back", sql.NullString{String: " ", Valid: true}, sql.NullString{String: "Gadget", Valid: true}, "Gadget"},
		{"nothing known", sql.NullString{}, sql.NullString{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineName(tt.stored, tt.current))
		})
	}
}
