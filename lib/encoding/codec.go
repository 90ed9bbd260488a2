package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Errors returned when decoding.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

// Codec serializes values with msgpack and protects them with a key.
// It supports two modes:
//   - Signed (default): Base64 + HMAC signature - readable but tamper-proof
//   - Sealed: AES-256-GCM - fully opaque
type Codec struct {
	key    []byte
	gcm    cipher.AEAD
	sealed bool
}

// Option configures a Codec.
type Option func(*Codec)

// Sealed makes the codec encrypt instead of sign.
func Sealed() Option {
	return func(c *Codec) {
		c.sealed = true
	}
}

// NewCodec creates a codec for the given key. Keys shorter than 32 bytes
// are stretched with SHA-256.
func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	c := &Codec{key: key, gcm: gcm}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode serializes v and returns its signed or sealed text form.
func (c *Codec) Encode(v any) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: marshal: %w", err)
	}
	if c.sealed {
		return c.seal(packed)
	}
	return c.sign(packed), nil
}

// Decode verifies encoded and deserializes it into v.
func (c *Codec) Decode(encoded string, v any) error {
	var packed []byte
	var err error
	if c.sealed {
		packed, err = c.open(encoded)
	} else {
		packed, err = c.verify(encoded)
	}
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return nil
}

// sign creates a signed (but visible) encoding: base64.signature
func (c *Codec) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	return b64 + "." + base64.RawURLEncoding.EncodeToString(c.mac(data))
}

func (c *Codec) verify(encoded string) ([]byte, error) {
	payload, signature, ok := strings.Cut(strings.TrimSpace(encoded), ".")
	if !ok {
		return nil, ErrInvalidFormat
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return nil, ErrSignatureInvalid
	}
	if !hmac.Equal(sig, c.mac(data)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

// mac returns the first 16 bytes of the HMAC-SHA256 of data.
func (c *Codec) mac(data []byte) []byte {
	m := hmac.New(sha256.New, c.key)
	m.Write(data)
	return m.Sum(nil)[:16]
}

func (c *Codec) seal(data []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(c.gcm.Seal(nonce, nonce, data, nil)), nil
}

func (c *Codec) open(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) < c.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}
	nonce, ciphertext := ciphertext[:c.gcm.NonceSize()], ciphertext[c.gcm.NonceSize():]
	data, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
