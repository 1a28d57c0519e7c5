// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrInvalidLobbyID = errors.New("invalid lobby id format")

// minLobbyValue is 36^8, the smallest value with nine base36 digits
const minLobbyValue uint64 = 2821109907456

var lobbyIDPattern = regexp.MustCompile(`^[0-9a-z]{9,13}$`)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateLobbyID creates a short lowercase base36 token for share links.
// The result always has between 9 and 13 characters.
func GenerateLobbyID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate lobby ID: %w", err)
	}

	n := binary.BigEndian.Uint64(b)
	if n < minLobbyValue {
		n += minLobbyValue
	}

	// math.MaxUint64 is 13 digits in base36
	return strconv.FormatUint(n, 36), nil
}

// ValidateLobbyID checks the token shape without touching storage
func ValidateLobbyID(id string) error {
	if !lobbyIDPattern.MatchString(id) {
		return ErrInvalidLobbyID
	}
	return nil
}

// DietaryFormLink is the relative path a lobby's participants open
func DietaryFormLink(lobbyID string) string {
	return "/dietary-form/" + lobbyID
}
