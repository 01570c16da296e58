package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// API responses expose a document's creation time but none of the other
// bookkeeping columns.
func TestGenericJSONShape(t *testing.T) {
	assert := assert.New(t)

	document := Document{
		Generic:  Generic{ID: 7, CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		UUID:     uuid.New(),
		Filename: "notes.txt",
		Kind:     TextKind,
	}

	raw, err := json.Marshal(document)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Contains(fields, "created_at")
	assert.Contains(fields, "uuid")
	assert.NotContains(fields, "id")
	assert.NotContains(fields, "updated_at")
	assert.NotContains(fields, "deleted_at")
}
