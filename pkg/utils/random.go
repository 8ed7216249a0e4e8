package utils

import (
	"math/rand"

	"github.com/google/uuid"
)

const codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateShortCode generates a random alphanumeric string of fixed length.
// It uses the top-level math/rand functions, which are safe for concurrent
// use; request handlers call this from many goroutines at once.
func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

// GenerateAPIKey generates a UUID string to be used as an API key
func GenerateAPIKey() string {
	return uuid.NewString()
}
