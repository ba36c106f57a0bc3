package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// KeyFor returns the stable cache key for a set of request params: a
// SHA-256 hash of their canonical JSON encoding, so two requests that
// differ only in field order or Go struct layout still collide correctly.
func KeyFor(p Params) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
