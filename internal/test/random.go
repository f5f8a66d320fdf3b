package test

import (
	"fmt"
	"math/rand/v2"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random alphanumeric string with a length
// between minLen and maxLen inclusive.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomEmail returns a unique-looking customer address.
func RandomEmail() string {
	return RandomASCIIString(5, 10) + "@example.com"
}

// RandomTransactionID mimics the gateway's "<merchant>-<unix>-<seq>" transaction ids.
func RandomTransactionID() string {
	return fmt.Sprintf("%d-%d-%05d", 10000+rand.IntN(90000), 1700000000+rand.IntN(10000000), rand.IntN(100000))
}
