package syncer

import (
	"encoding/json"
	"fmt"
)

func unmarshalPayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}
