// Package keychain is a small encrypted key/value store for session
// secrets (TMDB session ids, guest sessions, the last username).
//
// Values are sealed with XChaCha20-Poly1305 under a key derived from the
// install id and the OS user. The file is mode 0600. This keeps secrets out
// of plain-text config; it is not a replacement for an OS keychain.
package keychain

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// FileName is the name of the keychain file inside the data directory
const FileName = "keychain.json"

// Well-known keys
const (
	KeySessionID      = "session_id"
	KeyGuestSessionID = "guest_session_id"
	KeyGuestExpiresAt = "guest_expires_at"
	KeyUsername       = "username"
	KeyAccountID      = "account_id"
)

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("key not found")

type keychainFile struct {
	Items map[string]string `json:"items"` // key -> base64(nonce|ciphertext)
}

// Store is a file-backed encrypted key/value store
type Store struct {
	path string
	aead cipher.AEAD
	mu   sync.Mutex
}

// Open returns a store at dir/keychain.json whose key is bound to secret
// (normally the settings install id).
func Open(dir, secret string) (*Store, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("keychain secret required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keychain dir: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(os.Getenv("USER")), []byte("cloudmovies keychain v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive keychain key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	return &Store{
		path: filepath.Join(dir, FileName),
		aead: aead,
	}, nil
}

// Set stores value under key
func (s *Store) Set(key, value string) error {
	if key = norm(key); key == "" {
		return fmt.Errorf("key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kf, err := s.load()
	if err != nil {
		return err
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	kf.Items[key] = base64.StdEncoding.EncodeToString(sealed)

	return s.save(kf)
}

// Get returns the value stored under key or ErrNotFound
func (s *Store) Get(key string) (string, error) {
	if key = norm(key); key == "" {
		return "", fmt.Errorf("key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kf, err := s.load()
	if err != nil {
		return "", err
	}

	enc, ok := kf.Items[key]
	if !ok {
		return "", ErrNotFound
	}

	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext for %s too short", key)
	}

	nonce, body := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, body, []byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return string(plain), nil
}

// Delete removes the given keys. Missing keys are ignored.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kf, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(kf.Items, norm(k))
	}
	return s.save(kf)
}

// Has reports whether key is present
func (s *Store) Has(key string) bool {
	_, err := s.Get(key)
	return err == nil
}

func (s *Store) load() (keychainFile, error) {
	kf := keychainFile{Items: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return kf, nil
		}
		return kf, fmt.Errorf("failed to read keychain: %w", err)
	}
	if err := json.Unmarshal(data, &kf); err != nil {
		return kf, fmt.Errorf("failed to parse keychain: %w", err)
	}
	if kf.Items == nil {
		kf.Items = map[string]string{}
	}
	return kf, nil
}

func (s *Store) save(kf keychainFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write keychain: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
