package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mindhub-service/internal/pkg/constvars"
	"time"
)

func GenerateRequestID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return constvars.REQUEST_ID_PREFIX + hex.EncodeToString(buf)
}

// GenerateOpaqueToken returns a 256-bit URL-safe random string used as a
// remote assessment access token. The token itself carries no meaning; all
// state lives server-side.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func GenerateReportFileName(assessmentID string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.pdf", assessmentID, timestamp)
}
