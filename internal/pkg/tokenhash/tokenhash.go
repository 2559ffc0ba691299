package tokenhash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex blake2b-256 digest of a token. Repositories key
// sessions by this value so raw ids never reach storage.
func Hash(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
