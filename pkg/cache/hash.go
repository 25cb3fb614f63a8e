package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "<prefix>:<sha256>" cache key from its parts. Parts
// are JSON-encoded before hashing so graph bodies and option structs
// (frame size, force tuning) key consistently across runs.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the full 64-character hex SHA-256 of data. Layout keys
// use it for the graph body hash and FileCache uses it for file names.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
