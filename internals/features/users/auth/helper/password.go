package helper

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword genera el hash bcrypt de la contraseña
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compara hash almacenado vs contraseña en claro
func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
