// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"expedientes_backend/internals/configs"
	authModel "expedientes_backend/internals/features/users/auth/model"
)

// AuthMiddleware valida el bearer token, comprueba la blacklist y
// recarga el usuario desde la base (los cambios de rol aplican sin re-login).
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// Blacklist (logout) — una vez por request
		if c.Locals("token_checked") == nil {
			var existing authModel.TokenBlacklist
			if err := db.Where("token = ?", tokenString).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error al consultar blacklist:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Error interno del servidor")
			}
			c.Locals("token_checked", true)
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET vacío")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inesperado")
			}
			return []byte(secretKey), nil
		}); err != nil {
			// Expirado y malformado se reportan distinto
			if errors.Is(err, jwt.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token expirado")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
		}

		userID, err := ExtractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
		}

		// Recargar usuario: el rol vigente es el de la base, no el del token
		var user authModel.UserModel
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Usuario no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Error interno del servidor")
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		c.Locals("userRole", user.Role)
		c.Locals("token_string", tokenString)

		return c.Next()
	}
}
