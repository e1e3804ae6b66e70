package pkg

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	addressLength = 20
	txHashLength  = 32
)

// NormalizeAddress validates a 0x prefixed 20 byte hex address and returns
// it in lower case, the form used as entity key.
func NormalizeAddress(address string) (string, error) {
	bz, err := decodeHex(address)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", address, err)
	}
	if len(bz) != addressLength {
		return "", fmt.Errorf("invalid address %q: expected %d bytes, got %d", address, addressLength, len(bz))
	}
	return "0x" + hex.EncodeToString(bz), nil
}

// NormalizeTxHash validates a 0x prefixed 32 byte transaction hash and
// returns it in lower case.
func NormalizeTxHash(hash string) (string, error) {
	bz, err := decodeHex(hash)
	if err != nil {
		return "", fmt.Errorf("invalid tx hash %q: %w", hash, err)
	}
	if len(bz) != txHashLength {
		return "", fmt.Errorf("invalid tx hash %q: expected %d bytes, got %d", hash, txHashLength, len(bz))
	}
	return "0x" + hex.EncodeToString(bz), nil
}

func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("missing 0x prefix")
	}
	return hex.DecodeString(s[2:])
}
