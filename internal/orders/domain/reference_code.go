package orders

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const (
	// ReferenceCodeLength is the length of a payment reference code.
	ReferenceCodeLength = 8
	deleteCodeLength    = 20
)

// NewReferenceCode generates a fresh 8-character uppercase hexadecimal
// reference code. Codes containing the letter O or the digit 0 are skipped
// because customers mix them up when typing the transfer memo; exists
// reports whether a candidate is already taken by another order.
func NewReferenceCode(exists func(code string) (bool, error)) (string, error) {
	for {
		code := strings.ToUpper(randomHex(ReferenceCodeLength))
		if strings.ContainsAny(code, "O0") {
			continue
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// NewDeleteCode generates the secret code embedded in cancellation links.
func NewDeleteCode() string {
	return randomHex(deleteCodeLength)
}

func randomHex(n int) string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:n]
}
