// Package randkey generates cryptographically secure random strings suitable
// for use as token identifiers and bootstrap passwords.
package randkey

import (
	"crypto/rand"
)

// StdLen is the standard key length, giving ~95 bits of entropy over the
// standard charset.
const StdLen = 16

// stdChars is the set of characters used in generated keys.
var stdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

const (
	// maxByteValue is the maximum value of a byte (2^8 - 1).
	maxByteValue = 255

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// New returns a new random string of the provided length consisting of the
// standard characters. A non-positive length yields the standard length.
func New(length int) string {
	if length <= 0 {
		length = StdLen
	}

	clen := len(stdChars)

	// Reject bytes above maxRb to avoid modulo bias.
	maxRb := maxByteValue - (byteRange % clen)

	out := make([]byte, length)
	buf := make([]byte, length*2) //nolint:mnd

	var i int
	for {
		if _, err := rand.Read(buf); err != nil {
			panic("randkey: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out[i] = stdChars[c%clen]
			i++
			if i == length {
				return string(out)
			}
		}
	}
}
