package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB stores T in a jsonb column.
type JSONB[T any] struct {
	Data T
}

// Scan replaces Data with the column value, so a reused target keeps nothing from the previous row.
func (p *JSONB[T]) Scan(src any) error {
	var zero T
	p.Data = zero

	switch typed := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(typed, &p.Data)
	case string:
		return json.Unmarshal([]byte(typed), &p.Data)
	default:
		return fmt.Errorf("JSONB.Scan: expected []byte, got %T", src)
	}
}

func (p JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(p.Data)
}
