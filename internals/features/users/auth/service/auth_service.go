package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"expedientes_backend/internals/configs"
	"expedientes_backend/internals/constants"
	authDTO "expedientes_backend/internals/features/users/auth/dto"
	authHelper "expedientes_backend/internals/features/users/auth/helper"
	authModel "expedientes_backend/internals/features/users/auth/model"
	helper "expedientes_backend/internals/helpers"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

const tokenTTL = 7 * 24 * time.Hour

var validate = validator.New()

func nowUTC() time.Time { return time.Now().UTC() }

/* ==========================
   TOKEN
========================== */

// GenerateToken emite un JWT HS256 de 7 días con user_id, username y role.
func GenerateToken(user authModel.UserModel) (string, error) {
	now := nowUTC()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
}

/* ==========================
   REGISTER
========================== */

// POST /auth/register
// Un registro anónimo siempre queda con rol "user"; crear un "admin"
// requiere que quien llama presente un token de admin.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input authDTO.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = constants.RoleUser
	}

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username, email y password son requeridos")
	}
	if len(input.Password) < 6 {
		return helper.JsonError(c, fiber.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres")
	}
	if !constants.ValidRole(input.Role) {
		return helper.JsonError(c, fiber.StatusBadRequest, `Rol inválido. Solo se permite "admin" o "user"`)
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Datos de registro inválidos")
	}

	if input.Role == constants.RoleAdmin && !callerIsAdmin(db, c) {
		return helper.JsonError(c, fiber.StatusForbidden, "Solo un admin puede crear usuarios admin")
	}

	// Unicidad de username/email
	var count int64
	if err := db.Model(&authModel.UserModel{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Username o email ya existe")
	}

	passwordHash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al procesar la contraseña")
	}

	user := authModel.UserModel{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "Username o email ya existe")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear el usuario")
	}

	token, err := GenerateToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al generar el token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuario registrado exitosamente",
		"user":    authDTO.ToUserDTO(user),
		"token":   token,
	})
}

/* ==========================
   LOGIN
========================== */

// POST /auth/login — acepta username o email en el campo username.
// Usuario inexistente y contraseña incorrecta responden el mismo mensaje.
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input authDTO.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username y password son requeridos")
	}

	var user authModel.UserModel
	err := db.Where("username = ? OR email = ?", input.Username, input.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Credenciales inválidas")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
	}

	if err := authHelper.CheckPasswordHash(user.PasswordHash, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Credenciales inválidas")
	}

	token, err := GenerateToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al generar el token")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login exitoso",
		"user":    authDTO.ToUserDTO(user),
		"token":   token,
	})
}

/* ==========================
   SESSION
========================== */

// GET /auth/me
func GetProfile(db *gorm.DB, c *fiber.Ctx) error {
	user, err := currentUser(db, c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Usuario no autenticado")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    authDTO.ToUserDTO(*user),
	})
}

// GET /auth/verify — introspección del token ya validado por el middleware
func VerifyToken(db *gorm.DB, c *fiber.Ctx) error {
	user, err := currentUser(db, c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Usuario no autenticado")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Token válido",
		"user":    authDTO.ToUserDTO(*user),
	})
}

// POST /auth/logout — agrega el token presentado a la blacklist
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	tokenString, _ := c.Locals("token_string").(string)
	if tokenString == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Usuario no autenticado")
	}

	expiredAt := nowUTC().Add(tokenTTL)
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(exp), 0).UTC()
		}
	}

	entry := authModel.TokenBlacklist{Token: tokenString, ExpiredAt: expiredAt}
	if err := db.Create(&entry).Error; err != nil {
		low := strings.ToLower(err.Error())
		// Un logout repetido del mismo token no es un error
		if !strings.Contains(low, "duplicate key") && !strings.Contains(low, "unique") {
			log.Println("[ERROR] No se pudo registrar token en blacklist:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Error interno del servidor")
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sesión cerrada exitosamente",
	})
}

// GET /auth/users (admin)
func GetAllUsers(db *gorm.DB, c *fiber.Ctx) error {
	var users []authModel.UserModel
	if err := db.Order("username").Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los usuarios")
	}

	result := make([]authDTO.UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, authDTO.ToUserDTO(u))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"users":   result,
	})
}

/* ==========================
   Helpers
========================== */

func currentUser(db *gorm.DB, c *fiber.Ctx) (*authModel.UserModel, error) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok || userID == 0 {
		return nil, errors.New("user_id ausente en el contexto")
	}
	var user authModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// callerIsAdmin valida el token opcional de quien registra; se usa solo
// para permitir la creación de cuentas admin desde la ruta pública.
func callerIsAdmin(db *gorm.DB, c *fiber.Ctx) bool {
	tokenString, err := authMiddleware.ExtractBearerToken(c)
	if err != nil {
		return false
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err != nil {
		return false
	}
	userID, err := authMiddleware.ExtractUserID(claims)
	if err != nil {
		return false
	}
	var user authModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.Role == constants.RoleAdmin
}
