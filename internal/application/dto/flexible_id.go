package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleID identificador que llega como string JSON o como número ("1" y 1 valen lo mismo).
type FlexibleID string

// UnmarshalJSON acepta string, número o null.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identificador debe ser string o número: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}
