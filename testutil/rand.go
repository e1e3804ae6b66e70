package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns empty string
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

func randomHex(t *testing.T, size int) string {
	t.Helper()

	b := make([]byte, size)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(b)
}

// RandomAddress returns a normalized account address
func RandomAddress(t *testing.T) string {
	return randomHex(t, 20)
}

// RandomTxHash returns a normalized transaction hash
func RandomTxHash(t *testing.T) string {
	return randomHex(t, 32)
}

// RandomAmount returns a positive amount that may exceed 64 bits
func RandomAmount() math.Int {
	return math.NewIntFromUint64(gofakeit.Uint64()).
		MulRaw(int64(gofakeit.IntRange(1, 1000))).
		AddRaw(1)
}
