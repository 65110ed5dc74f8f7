package docsec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Envelope carries one encrypted document. The authentication tag is split
// out so stored ciphertext, nonce and tag can live in separate columns.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	AuthTag    []byte
}

// Cipher performs authenticated encryption of document content using
// AES-256-GCM. The document id is bound as associated data, so ciphertext
// cannot be silently rebound to a different document.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes, got %d", ErrInvalidInput, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals content under a fresh nonce with documentID as AAD.
func (c *Cipher) Encrypt(content []byte, documentID string) (Envelope, error) {
	if documentID == "" {
		return Envelope{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Envelope{}, err
	}
	sealed := c.aead.Seal(nil, nonce, content, []byte(documentID))
	tagOffset := len(sealed) - c.aead.Overhead()
	return Envelope{
		Ciphertext: sealed[:tagOffset],
		Nonce:      nonce,
		AuthTag:    sealed[tagOffset:],
	}, nil
}

// Decrypt opens an envelope. A wrong key, tampered ciphertext or mismatched
// documentID all surface as the same ErrDecryption.
func (c *Cipher) Decrypt(env Envelope, documentID string) ([]byte, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if len(env.Nonce) != c.aead.NonceSize() || len(env.AuthTag) != c.aead.Overhead() {
		return nil, ErrDecryption
	}
	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.AuthTag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.AuthTag...)
	plain, err := c.aead.Open(nil, env.Nonce, sealed, []byte(documentID))
	if err != nil {
		return nil, ErrDecryption
	}
	return plain, nil
}

// IsDecryptionError reports whether err is a tag/AAD verification failure.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryption)
}
