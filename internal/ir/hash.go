package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a later algorithm change.
const (
	DomainAction = "normstate/action/v1"
	DomainState  = "normstate/state/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ActionID computes the content-addressed id of a recorded action.
// The id is stable across runs given the same session, seq and action body.
func ActionID(session string, seq int64, action Object) (string, error) {
	obj := Object{
		"session": String(session),
		"seq":     Int(seq),
		"action":  action,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ActionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAction, canonical), nil
}

// StateDigest hashes the canonical encoding of a state tree.
// Two stores with equal state produce equal digests.
func StateDigest(state any) (string, error) {
	canonical, err := MarshalCanonical(state)
	if err != nil {
		return "", fmt.Errorf("StateDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainState, canonical), nil
}

// MustActionID is like ActionID but panics on error.
// Use only in tests.
func MustActionID(session string, seq int64, action Object) string {
	id, err := ActionID(session, seq, action)
	if err != nil {
		panic(err)
	}
	return id
}
