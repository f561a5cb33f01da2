package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURLScheme = "data:"

// EncodeBase64 returns the raw standard base64 of buffer, without any data-URL prefix.
func EncodeBase64(buffer []byte) string {
	return base64.StdEncoding.EncodeToString(buffer)
}

func DecodeBase64(encoded string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(StripDataURLPrefix(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return decoded, nil
}

// ToDataURL builds "data:<mime>;base64,<payload>". An empty mime falls back to
// application/octet-stream.
func ToDataURL(mimeType string, buffer []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return dataURLScheme + mimeType + ";base64," + EncodeBase64(buffer)
}

// StripDataURLPrefix drops everything up to and including the first comma of a data URL.
// Anything that is not a data URL is returned unchanged.
func StripDataURLPrefix(value string) string {
	if !strings.HasPrefix(value, dataURLScheme) {
		return value
	}
	if idx := strings.Index(value, ","); idx != -1 {
		return value[idx+1:]
	}
	return value
}
