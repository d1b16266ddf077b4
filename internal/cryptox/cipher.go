// Package cryptox implements the vault's encryption-at-rest scheme and the
// password hashing used by the user directory.
//
// Secrets are sealed with AES-256-CBC under a single process-wide key and a
// fresh random IV per call. The sealed wire format is
//
//	hex(iv) + ":" + hex(ciphertext)
//
// Values without a colon are treated as legacy plaintext and returned by
// Open unchanged.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/credvault/internal/common"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the CBC initialization vector length in bytes.
	IVSize = aes.BlockSize

	separator = ":"
)

// ivReader is a seam for tests that need to observe or break IV generation.
var ivReader io.Reader = rand.Reader

var sealedPattern = regexp.MustCompile(`^[0-9a-f]+:[0-9a-f]+$`)

// Cipher seals and opens secret strings. The key is fixed at construction
// and never changes; a Cipher is safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// NewCipher returns a Cipher for the given 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	return &Cipher{block: block}, nil
}

// Seal encrypts plaintext under a freshly generated IV and returns the
// sealed representation. Two calls with the same input never return the
// same output.
func (c *Cipher) Seal(plaintext string) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", fmt.Errorf("%w: secret is not valid UTF-8", common.ErrorValidation)
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(ivReader, iv); err != nil {
		return "", fmt.Errorf("rand iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + separator + hex.EncodeToString(ciphertext), nil
}

// Open reverses Seal. Empty input and input without a colon are legacy
// plaintext and come back unchanged. Anything that looks sealed but cannot
// be decoded or decrypted fails with common.ErrorDecode.
func (c *Cipher) Open(sealed string) (string, error) {
	ivHex, ctHex, found := strings.Cut(sealed, separator)
	if sealed == "" || !found {
		return sealed, nil
	}

	if ivHex == "" || ctHex == "" {
		return "", fmt.Errorf("%w: empty segment", common.ErrorDecode)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: iv: %v", common.ErrorDecode, err)
	}
	if len(iv) != IVSize {
		return "", fmt.Errorf("%w: iv is %d bytes, want %d", common.ErrorDecode, len(iv), IVSize)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", common.ErrorDecode, err)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", common.ErrorDecode)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	// a wrong key almost never yields valid padding and valid UTF-8 at once
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: decrypted value is not valid UTF-8", common.ErrorDecode)
	}
	return string(plain), nil
}

// IsSealed reports whether s has the sealed shape iv-hex:ciphertext-hex.
// It does not attempt decryption.
func IsSealed(s string) bool {
	return sealedPattern.MatchString(s)
}

// pad applies PKCS#7 padding. The result is always at least one block long.
func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
