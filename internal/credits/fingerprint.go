package credits

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint — one-way хэш сигнатуры браузера.
// Чистка cookie не сбрасывает квоту, пока сигнатура сети/браузера та же.
func Fingerprint(userAgent, acceptLanguage, acceptEncoding, clientIP string) string {
	raw := strings.Join([]string{userAgent, acceptLanguage, acceptEncoding, clientIP}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
