package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// ErrSecretNotFound is returned when a secret is missing, expired or already taken
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore keeps short-lived AES-GCM encrypted payloads (password reset
// grants) in Redis. Take consumes a secret so it can be used once.
type SecretStore struct {
	encryptionKey []byte
	prefix        string
}

var (
	setSecretValue  = Set
	takeSecretValue = GetDel
)

// NewSecretStore creates a store whose keys live under prefix
func NewSecretStore(encryptionKeyHex, prefix string) (*SecretStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &SecretStore{encryptionKey: key, prefix: prefix}, nil
}

// Put stores data under id until ttl elapses
func (s *SecretStore) Put(ctx context.Context, id string, data any, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	encrypted, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}
	return setSecretValue(ctx, s.key(id), encrypted, ttl)
}

// Take loads and removes the secret stored under id into out
func (s *SecretStore) Take(ctx context.Context, id string, out any) error {
	encrypted, err := takeSecretValue(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, Nil) {
			return ErrSecretNotFound
		}
		return err
	}

	plaintext, err := s.decrypt(encrypted)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, out)
}

func (s *SecretStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *SecretStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *SecretStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
