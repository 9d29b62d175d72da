package survey

import (
	"fmt"

	"github.com/roach88/normstate/internal/ir"
)

// Snapshot renders the root state as canonical JSON.
func Snapshot(s State) ([]byte, error) {
	data, err := ir.MarshalCanonical(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return data, nil
}

// Digest returns the content hash of the root state.
func Digest(s State) (string, error) {
	digest, err := ir.StateDigest(s)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return digest, nil
}
