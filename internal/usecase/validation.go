package usecase

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet omits characters that are easy to misread when typed from a printed code.
const codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

const (
	codeGroups    = 3
	codeGroupSize = 4
	codeLength    = codeGroups * codeGroupSize
)

// GenerateRedemptionCode returns a random code in the XXXX-XXXX-XXXX form.
// The last character is a Luhn mod N check character over the alphabet.
func GenerateRedemptionCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	payload := make([]byte, codeLength-1)
	for i := range payload {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		payload[i] = codeAlphabet[n.Int64()]
	}
	return formatCode(string(payload) + string(checkCharacter(string(payload)))), nil
}

// ValidateRedemptionCode normalizes user input and verifies the check character.
// It returns the canonical form of the code.
func ValidateRedemptionCode(code string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		switch {
		case r == '-' || r == ' ':
			continue
		case r > 127 || strings.IndexByte(codeAlphabet, byte(r)) < 0:
			return "", false
		}
		b.WriteRune(r)
	}
	raw := b.String()
	if len(raw) != codeLength {
		return "", false
	}

	n := len(codeAlphabet)
	factor := 1
	sum := 0
	for i := len(raw) - 1; i >= 0; i-- {
		addend := factor * strings.IndexByte(codeAlphabet, raw[i])
		factor = 3 - factor
		sum += addend/n + addend%n
	}
	if sum%n != 0 {
		return "", false
	}
	return formatCode(raw), true
}

func checkCharacter(payload string) byte {
	n := len(codeAlphabet)
	factor := 2
	sum := 0
	for i := len(payload) - 1; i >= 0; i-- {
		addend := factor * strings.IndexByte(codeAlphabet, payload[i])
		factor = 3 - factor
		sum += addend/n + addend%n
	}
	return codeAlphabet[(n-sum%n)%n]
}

func formatCode(raw string) string {
	parts := make([]string, 0, codeGroups)
	for i := 0; i < len(raw); i += codeGroupSize {
		parts = append(parts, raw[i:i+codeGroupSize])
	}
	return strings.Join(parts, "-")
}
