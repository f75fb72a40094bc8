package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// JSONMap stores a free-form key-value map as a JSON text column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "marshal json map")
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return eris.Errorf("unsupported column type %T for json map", value)
	}

	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return eris.Wrap(json.Unmarshal(b, m), "unmarshal json map")
}
