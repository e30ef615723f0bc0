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

	"github.com/google/uuid"
)

// ErrClaimNotFound is returned when a claim code does not exist or was
// already consumed.
var ErrClaimNotFound = errors.New("claim code not found")

// ClaimData holds the pending wallet-pass link a claim code points at.
type ClaimData struct {
	MerchantID uuid.UUID `json:"merchantId"`
	CustomerID uuid.UUID `json:"customerId"`
}

// ClaimStore keeps short-lived wallet-pass claim codes in Redis. Codes are
// single-use: Claim consumes the code, so a second attempt with the same code
// fails. Payloads are encrypted at rest.
type ClaimStore struct {
	encryptionKey []byte
}

var (
	getDelClaimValue = GetDel
	setNXClaimValue  = SetNX
)

// NewClaimStore creates a new claim store
func NewClaimStore(encryptionKeyHex string) (*ClaimStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &ClaimStore{encryptionKey: key}, nil
}

// Create stores an encrypted claim payload under the code with a TTL. The
// code must be unused.
func (s *ClaimStore) Create(ctx context.Context, code string, data *ClaimData, expiration time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	encryptedData, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	ok, err := setNXClaimValue(ctx, "claim:"+code, encryptedData, expiration)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("claim code already exists")
	}
	return nil
}

// Claim consumes a claim code and returns its payload. The read and the
// delete happen in a single GETDEL, so only one caller can win a code.
func (s *ClaimStore) Claim(ctx context.Context, code string) (*ClaimData, error) {
	encryptedDataStr, err := getDelClaimValue(ctx, "claim:"+code)
	if err != nil {
		return nil, ErrClaimNotFound
	}

	decryptedData, err := s.decrypt(encryptedDataStr)
	if err != nil {
		return nil, err
	}

	var data ClaimData
	if err := json.Unmarshal(decryptedData, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *ClaimStore) encrypt(plaintext []byte) (string, error) {
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

func (s *ClaimStore) decrypt(ciphertextHex string) ([]byte, error) {
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
