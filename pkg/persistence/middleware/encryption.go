package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
)

// envelopePrefix marks the HTML field of an encrypted snapshot.
const envelopePrefix = "enc:v1:"

// ErrNotEncrypted is returned when a stored snapshot carries no encrypted envelope.
var ErrNotEncrypted = errors.New("snapshot is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt,
	// so keys can be rotated without losing sessions.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SnapshotStore
	config EncryptionConfig
}

// NewEncryptionMiddleware seals whole snapshots with AES-GCM. The stored
// envelope only exposes the session id and the save time.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, snap *domain.Snapshot) error {
	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	sealed, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt snapshot: %w", err)
	}

	envelope := &domain.Snapshot{
		SessionID: snap.SessionID,
		HTML:      envelopePrefix + base64.StdEncoding.EncodeToString(sealed),
		SavedAt:   snap.SavedAt,
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	envelope, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	encoded, ok := strings.CutPrefix(envelope.HTML, envelopePrefix)
	if !ok {
		return nil, ErrNotEncrypted
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(sealed, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted snapshot: %w", err)
	}
	return &snap, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func encrypt(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	for _, key := range append([][]byte{activeKey}, fallbackKeys...) {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
