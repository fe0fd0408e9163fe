package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "prefix:" followed by the hex SHA-256 of parts encoded as a
// JSON array. Encoding the parts as an array keeps ("ab", "c") and
// ("a", "bc") apart.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// parts are plain strings and option structs; this cannot fail.
		panic("cache: unencodable key parts: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
