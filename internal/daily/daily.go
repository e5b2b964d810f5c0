// internal/daily/daily.go
//
// Deterministic "word of the day" selection. Every player asking for the
// same category on the same UTC date gets the same index.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns HMAC-SHA256(salt, scope|YYYY-MM-DD) mod n, or 0 when n <= 0.
// scope keeps different lists (categories) from sharing the same index.
func Index(date time.Time, salt, scope string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(scope))
	h.Write([]byte{'|'})
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
