package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/normstate/internal/ir"
)

// marshalBody converts an action wire shape to canonical JSON TEXT.
func marshalBody(body ir.Object) (string, error) {
	data, err := ir.MarshalCanonical(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}
	return string(data), nil
}

// unmarshalBody parses canonical JSON TEXT. Integers keep full int64
// precision.
func unmarshalBody(data string) (ir.Object, error) {
	var obj ir.Object
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal body: %w", err)
	}
	return obj, nil
}
