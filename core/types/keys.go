package types

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const keyFileMode = 0o600

var ErrInvalidKey = errors.New("invalid key")

// KeyPair is an ed25519 key pair stored on disk as {"public": hex, "secret": hex}.
// The secret is the 32-byte seed.
type KeyPair struct {
	Public string `json:"public"`
	Secret string `json:"secret"`
}

func NewKeyPair() (*KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return KeyPairFromPrivateKey(priv), nil
}

func KeyPairFromPrivateKey(priv ed25519.PrivateKey) *KeyPair {
	return &KeyPair{
		Public: hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
		Secret: hex.EncodeToString(priv.Seed()),
	}
}

// KeyPairFromSecret derives the pair from a hex-encoded 32-byte seed.
func KeyPairFromSecret(secret string) (*KeyPair, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: secret must be %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, len(seed))
	}
	return KeyPairFromPrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

func (k *KeyPair) PrivateKey() (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(k.Secret)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: malformed secret", ErrInvalidKey)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func (k *KeyPair) PublicKey() (ed25519.PublicKey, error) {
	pub, err := hex.DecodeString(k.Public)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: malformed public key", ErrInvalidKey)
	}
	return pub, nil
}

// Validate checks that the public key matches the secret.
func (k *KeyPair) Validate() error {
	priv, err := k.PrivateKey()
	if err != nil {
		return err
	}
	pub, err := k.PublicKey()
	if err != nil {
		return err
	}
	if !pub.Equal(priv.Public()) {
		return fmt.Errorf("%w: public key does not match secret", ErrInvalidKey)
	}
	return nil
}

func ReadKeyPair(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var k KeyPair
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidKey, path, err)
	}
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &k, nil
}

func WriteKeyPair(path string, k *KeyPair) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, keyFileMode)
}

// CreateKeyPairOrRead reads the key file at path or creates it with a fresh pair.
func CreateKeyPairOrRead(path string) (*KeyPair, error) {
	k, err := ReadKeyPair(path)
	if err == nil {
		return k, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if k, err = NewKeyPair(); err != nil {
		return nil, err
	}
	if err := WriteKeyPair(path, k); err != nil {
		return nil, err
	}
	return k, nil
}
