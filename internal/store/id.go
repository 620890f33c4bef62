package store

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	minIDLength = 6
	maxIDLength = 12
	nonceSize   = 16
)

// newID creates a unique task id by hashing title, creation time, and a
// random nonce, growing the prefix length until it misses the collection.
func newID(title string, createdAt time.Time, existsFn func(string) bool) string {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)
	base36 := hexToBase36(hex.EncodeToString(h.Sum(nil)))

	for length := minIDLength; length <= maxIDLength && length <= len(base36); length++ {
		candidate := base36[:length]
		if !existsFn(candidate) {
			return candidate
		}
	}
	return base36[:maxIDLength]
}

func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += 4 {
		end := min(i+4, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
