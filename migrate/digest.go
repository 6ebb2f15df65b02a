package migrate

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns the hex BLAKE2b-256 digest of a script's SQL text.
// Line endings are normalized first so a checkout with CRLF endings does not
// report drift against the recorded checksum.
func Checksum(sql string) string {
	normalized := strings.ReplaceAll(sql, "\r\n", "\n")
	sum := blake2b.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
