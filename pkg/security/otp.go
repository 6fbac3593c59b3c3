package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

// OTP codes are short-lived and rate limited, so the parameters stay on the
// light side to keep the login path cheap.
const (
	otpArgonMemoryKB    = 16 * 1024
	otpArgonTime        = 2
	otpArgonParallelism = 1
	otpSaltLen          = 16
	otpKeyLen           = 32
)

// GenerateOTPCode produces a zero-padded numeric code of the given length.
func GenerateOTPCode(digits int) (string, error) {
	if digits <= 0 || digits > 10 {
		return "", fmt.Errorf("invalid otp length %d", digits)
	}
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		n, err := randInt(10)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n))
	}
	return sb.String(), nil
}

// HashOTPCode returns a formatted Argon2id hash for the provided code.
func HashOTPCode(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("otp code cannot be empty")
	}

	salt := make([]byte, otpSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(code), salt, otpArgonTime, otpArgonMemoryKB, otpArgonParallelism, otpKeyLen)

	encSalt := base64.RawStdEncoding.EncodeToString(salt)
	encHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", otpArgonMemoryKB, otpArgonTime, otpArgonParallelism, encSalt, encHash), nil
}

// VerifyOTPCode returns true when the code matches the encoded hash.
func VerifyOTPCode(code, encoded string) (bool, error) {
	memory, time, parallelism, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(code), salt, time, memory, parallelism, uint32(len(hash)))

	if subtle.ConstantTimeCompare(hash, computed) == 1 {
		return true, nil
	}
	return false, nil
}

func decodeHash(encoded string) (uint32, uint32, uint8, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	var memory, time uint32
	var parallelism uint8
	for _, token := range strings.Split(parts[3], ",") {
		keyValue := strings.SplitN(token, "=", 2)
		if len(keyValue) != 2 {
			return 0, 0, 0, nil, nil, ErrInvalidHash
		}
		key, value := keyValue[0], keyValue[1]
		switch key {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return 0, 0, 0, nil, nil, ErrInvalidHash
			}
			parallelism = uint8(v)
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	return memory, time, parallelism, salt, hash, nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	if _, err := rand.Read(buff); err != nil {
		return 0, err
	}
	return int(buff[0]) % max, nil
}
