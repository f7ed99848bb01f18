// Package resilience provides stable cache key construction.
package resilience

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// StableHash returns a deterministic hex digest of a JSON-like value,
// invariant to map key and struct field ordering. It is a cache and
// dedup key, not a security primitive.
func StableHash(value any) (string, error) {
	canonical, err := canonicalize(value)
	if err != nil {
		return "", Wrap(CodeInputInvalid, "value is not hashable", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// MustStableHash is StableHash for values already known to marshal.
func MustStableHash(value any) string {
	digest, err := StableHash(value)
	if err != nil {
		panic(fmt.Sprintf("stable hash: %v", err))
	}
	return digest
}

// canonicalize round-trips the value through encoding/json so structs
// collapse to maps, whose keys Marshal emits in sorted order.
func canonicalize(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
