package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// ExtractBearerToken toma el token del header Authorization.
// Formato requerido: "Bearer <token>".
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("Token de acceso requerido. Formato: Bearer <token>")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", errors.New("Token de acceso requerido. Formato: Bearer <token>")
	}
	return token, nil
}

// ExtractUserID lee el claim user_id (numérico en los tokens emitidos).
func ExtractUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		if v < 1 {
			return 0, errors.New("user_id inválido")
		}
		return uint(v), nil
	default:
		return 0, errors.New("user_id ausente en el token")
	}
}
