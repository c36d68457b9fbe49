package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a JSON object column: audit entry context and any other
// free-form key-value data persist through it as TEXT. It implements
// sql.Scanner and driver.Valuer, so repositories read and write it like any
// scalar column.
type Metadata map[string]any

// Scan implements sql.Scanner. A NULL column loads as an empty map; a column
// holding text that does not parse as JSON is an error, matching how the
// config repository treats corrupt document columns.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if err := json.Unmarshal(v, m); err != nil {
			return fmt.Errorf("parsing metadata column : %w", err)
		}
		return nil
	case string:
		if err := json.Unmarshal([]byte(v), m); err != nil {
			return fmt.Errorf("parsing metadata column : %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported type %T", v)
	}
}

// Value implements driver.Valuer. An empty map persists as the empty JSON
// object rather than NULL, so every stored row round-trips through Scan.
func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}
