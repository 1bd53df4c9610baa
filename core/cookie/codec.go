package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"strings"
)

// sign encodes the value and appends a base64url HMAC-SHA256 signature,
// separated by a dot. The first secret always signs.
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, []byte(m.secrets[0]))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify checks the signature against every configured secret so that cookies
// signed before a key rotation remain readable.
func (m *Manager) verify(signed string) (string, error) {
	encoded, signature, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		if subtle.ConstantTimeCompare(sig, mac.Sum(nil)) == 1 {
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}

// seal encrypts the value with AES-256-GCM under the first secret.
func (m *Manager) seal(value string) (string, error) {
	gcm, err := newGCM(m.secrets[0])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(gcm.Seal(nonce, nonce, []byte(value), nil)), nil
}

// open decrypts a sealed value, trying every configured secret for key rotation.
func (m *Manager) open(sealed string) (string, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		gcm, err := newGCM(secret)
		if err != nil {
			continue
		}
		if len(ciphertext) < gcm.NonceSize() {
			continue
		}
		nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, sealed, nil); err == nil {
			return string(plaintext), nil
		}
	}

	return "", ErrOpenFailed
}

// newGCM builds an AES-256-GCM cipher from the first 32 bytes of the secret.
// Secret length is validated at construction time in New.
func newGCM(secret string) (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(secret[:32]))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
