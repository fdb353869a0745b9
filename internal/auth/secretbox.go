package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	nonceSize = 12
	tagSize   = 16
)

var errMalformed = errors.New("malformed sealed payload")

// SecretBox seals short secrets with AES-256-GCM. Sealed values are
// "iv.tag.data", each part standard base64.
type SecretBox struct {
	aead cipher.AEAD
}

func NewSecretBox(secret string) (*SecretBox, error) {
	if secret == "" {
		return nil, errors.New("empty secret")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &SecretBox{aead: aead}, nil
}

func (b *SecretBox) Seal(plain string) (string, error) {
	iv := make([]byte, nonceSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	out := b.aead.Seal(nil, iv, []byte(plain), nil)
	data, tag := out[:len(out)-tagSize], out[len(out)-tagSize:]
	enc := base64.StdEncoding
	return enc.EncodeToString(iv) + "." + enc.EncodeToString(tag) + "." + enc.EncodeToString(data), nil
}

func (b *SecretBox) Open(sealed string) (string, error) {
	parts := strings.Split(sealed, ".")
	if len(parts) != 3 {
		return "", errMalformed
	}
	var raw [3][]byte
	for i, p := range parts {
		v, err := base64.StdEncoding.DecodeString(p)
		if err != nil {
			return "", errMalformed
		}
		raw[i] = v
	}
	iv, tag, data := raw[0], raw[1], raw[2]
	if len(iv) != nonceSize || len(tag) != tagSize {
		return "", errMalformed
	}
	plain, err := b.aead.Open(nil, iv, append(data, tag...), nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
