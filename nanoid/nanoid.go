// Package nanoid generates short URL-safe random identifiers. stepsql tags
// every migration run with one so interleaved log output from repeated
// invocations can be told apart.
package nanoid

import "crypto/rand"

// Length of a generated identifier in characters.
const Length = 21

// alphabet holds 64 URL-safe characters, so each output character consumes
// exactly six bits of randomness and masking introduces no bias.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// New returns a cryptographically random identifier.
func New() string {
	var buf [Length]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("nanoid: failed to read random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = alphabet[b&63]
	}
	return string(buf[:])
}
