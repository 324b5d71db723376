package guest

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet leaves out 0/O and 1/I so codes survive being read out loud
// or scribbled on a note by the door.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a guest access code.
const CodeLength = 6

// NewAccessCode returns a random access code from the unambiguous
// alphabet.
func NewAccessCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
