// Package password реализует хеширование и проверку паролей.
//
// Актуальная схема — bcrypt. Исторические записи могли быть созданы по
// схеме "pbkdf2$<salt>$<digest>" (sha256, 200000 итераций); такие хэши
// проверяются, но при первом успешном входе заменяются на bcrypt.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	legacyPrefix     = "pbkdf2$"
	legacyIterations = 200_000
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает сохранённый хэш с введённым паролем.
// Поддерживает обе схемы, диспетчеризация по префиксу формата.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if strings.HasPrefix(originalHash, legacyPrefix) {
		if compareLegacy(originalHash, externalPassword) {
			return nil
		}
		return fmt.Errorf("%s: legacy hash mismatch", op)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsLegacy сообщает, что хэш записан по устаревшей схеме и после успешной
// проверки должен быть заменён на bcrypt.
func IsLegacy(hash string) bool {
	return strings.HasPrefix(hash, legacyPrefix)
}

func compareLegacy(hash, externalPassword string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false
	}
	salt, digest := parts[1], parts[2]
	check := pbkdf2.Key([]byte(externalPassword), []byte(salt), legacyIterations, sha256.Size, sha256.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(check)), []byte(digest)) == 1
}
