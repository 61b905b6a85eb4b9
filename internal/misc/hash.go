package misc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashHeader carries the hex HMAC of a request or response body.
const HashHeader = "HashSHA256"

// SignSHA256 returns the hex HMAC-SHA256 of value under key.
func SignSHA256(value []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(value)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySHA256 compares a received hex signature with the expected one in constant time.
func VerifySHA256(value []byte, key, got string) bool {
	want, err := hex.DecodeString(SignSHA256(value, key))
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(strings.TrimSpace(got))
	if err != nil {
		return false
	}
	return hmac.Equal(sig, want)
}
