package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// shareTokenBytes gives 72 bits of entropy in a 12-character URL-safe
// token, comfortably above the guessing-resistance floor.
const shareTokenBytes = 9

// GenerateShareToken mints the unguessable public identifier embedded
// in share URLs.
func GenerateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("failed to generate share token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
