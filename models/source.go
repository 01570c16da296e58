package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Source is a citation attached to an AI message: the document a piece of the
// answer came from and how relevant the matched chunk was.
type Source struct {
	DocumentUUID uuid.UUID `json:"document_uuid"`
	Filename     string    `json:"filename"`
	Similarity   float32   `json:"similarity"`
}

// Sources is stored as a JSON column on messages.
type Sources []Source

func (s Sources) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}

	return json.Marshal(s)
}

func (s *Sources) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for sources: %T", value)
	}

	return json.Unmarshal(b, s)
}
