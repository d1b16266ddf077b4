package cryptox

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

// ErrInvalidKey is returned when configured key material has the wrong shape.
var ErrInvalidKey = errors.New("invalid vault key")

// DevelopmentKey is the fallback used only when the environment is
// "development" and no key is configured. It is public knowledge; anything
// sealed with it is not protected.
const DevelopmentKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// ResolveKey turns configured key material into a 32-byte AES key.
//
// A 64-character hex string is decoded; a 32-byte string is used verbatim.
// When raw is empty, production fails with common.ErrorEncryptionKeyNotSet
// and development returns DevelopmentKey with fallback set to true.
func ResolveKey(raw, environment string) (key []byte, fallback bool, err error) {
	if raw == "" {
		switch environment {
		case common.EnvironmentDevelopment:
			dev, decErr := hex.DecodeString(DevelopmentKey)
			return dev, true, decErr
		default:
			return nil, false, common.ErrorEncryptionKeyNotSet
		}
	}

	if len(raw) == KeySize*2 {
		if decoded, decErr := hex.DecodeString(raw); decErr == nil {
			return decoded, false, nil
		}
	}
	if len(raw) == KeySize {
		return []byte(raw), false, nil
	}
	return nil, false, fmt.Errorf("%w: expected %d hex characters or %d raw bytes", ErrInvalidKey, KeySize*2, KeySize)
}

// GenerateKey returns a fresh random key in the hex form accepted by ResolveKey.
func GenerateKey() (string, error) {
	return common.MakeRandHexString(KeySize)
}
