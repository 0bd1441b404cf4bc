package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"os"
	"sync"
)

var (
	jwtSecretByte = []byte(getEnv("JWTSECRET", ""))
	jwtMutex      sync.RWMutex
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// HashPassword derives an HMAC-SHA256 digest of the password keyed on the
// shared secret.
func HashPassword(password string) (hashedPassword string) {
	secretByte := GetJWTSecretByte()
	h := hmac.New(sha256.New, secretByte)
	h.Write([]byte(password))
	hashedPassword = hex.EncodeToString(h.Sum(nil))
	return
}

// SetJWTSecret updates the secret used for token signing and password
// hashing. Thread-safe; tests relying on a deterministic secret should not
// run in parallel.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current secret bytes.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	return append([]byte(nil), jwtSecretByte...)
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random initial password for newly created
// accounts.
func GeneratePassword(length int) string {
	if length <= 0 {
		length = 16
	}
	return randomString(passwordAlphabet, length)
}

// GenerateAccessCode returns a short linking code for pharmacy and lab
// accounts. The alphabet omits easily confused characters.
func GenerateAccessCode(length int) string {
	if length <= 0 {
		length = 8
	}
	return randomString(accessCodeAlphabet, length)
}

func randomString(alphabet string, length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is unrecoverable for credential generation
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
