package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"os"
)

const (
	nonceSize    = 12
	tagSize      = aes.BlockSize
	versionMagic = byte('W')

	// DataKeyEnvVar holds the base64-encoded 32-byte master key.
	DataKeyEnvVar = "WARDEN_DATA_KEY"
)

// Cipher seals and opens secret values. The additional authenticated data
// binds a ciphertext to its storage location so values cannot be swapped
// between paths.
type Cipher interface {
	Encrypt(aad, plaintext []byte) ([]byte, error)
	Decrypt(aad, packed []byte) ([]byte, error)
}

type aesCipher struct {
	aead cipher.AEAD
}

// NewCipher creates an AES-GCM cipher from a 32-byte key.
func NewCipher(key []byte) (Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesCipher{aead: aead}, nil
}

// CipherFromEnv creates the cipher from the base64 key in WARDEN_DATA_KEY.
func CipherFromEnv() (Cipher, error) {
	encoded := os.Getenv(DataKeyEnvVar)
	if encoded == "" {
		return nil, errors.New(DataKeyEnvVar + " environment variable is required")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New(DataKeyEnvVar + " is not valid base64")
	}
	if len(key) != 32 {
		return nil, errors.New(DataKeyEnvVar + " must decode to 32 bytes")
	}
	return NewCipher(key)
}

// GenerateDataKey returns a fresh base64-encoded 32-byte key.
func GenerateDataKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func (c *aesCipher) Encrypt(aad, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, aad)
	return pack(sealed, nonce), nil
}

func (c *aesCipher) Decrypt(aad, packed []byte) ([]byte, error) {
	ciphertext, nonce, err := unpack(packed)
	if err != nil {
		return nil, err
	}
	return c.aead.Open(nil, nonce, ciphertext, aad)
}

// pack lays out a sealed value as magic || tag || nonce || ciphertext.
func pack(sealedWithTag, nonce []byte) []byte {
	tagStart := len(sealedWithTag) - tagSize
	ciphertext := sealedWithTag[:tagStart]
	tag := sealedWithTag[tagStart:]

	packed := make([]byte, 0, 1+tagSize+nonceSize+len(ciphertext))
	packed = append(packed, versionMagic)
	packed = append(packed, tag...)
	packed = append(packed, nonce...)
	packed = append(packed, ciphertext...)
	return packed
}

func unpack(packed []byte) (ciphertext, nonce []byte, err error) {
	if len(packed) < 1+tagSize+nonceSize {
		return nil, nil, errors.New("sealed value is too short")
	}
	if packed[0] != versionMagic {
		return nil, nil, errors.New("sealed value has an unknown format version")
	}

	tag := packed[1 : 1+tagSize]
	nonce = packed[1+tagSize : 1+tagSize+nonceSize]
	body := packed[1+tagSize+nonceSize:]

	ciphertext = make([]byte, 0, len(body)+tagSize)
	ciphertext = append(ciphertext, body...)
	ciphertext = append(ciphertext, tag...)
	return ciphertext, nonce, nil
}
