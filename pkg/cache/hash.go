package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Artifact snapshots and scene
// options are hashed this way so that equal values share a key. A value
// that cannot be encoded hashes like JSON null.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte("null")
	}
	return Hash(data)
}

// hashKey builds "prefix:<sha256 of parts>".
func hashKey(prefix string, parts ...any) string {
	return prefix + ":" + HashJSON(parts)
}
