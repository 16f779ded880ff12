// Package token provides URL-safe API key token generation backed by nanoid.
package token

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix is prepended to every generated token so keys are recognizable
// in logs and support tickets.
const Prefix = "sk_"

// Alphabet defines the character set used for the random portion.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 40

// Generate returns a new API key token.
func Generate() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	return Prefix + id, nil
}
