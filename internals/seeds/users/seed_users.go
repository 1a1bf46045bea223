package users

import (
	"log"
	"os"

	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	authHelper "expedientes_backend/internals/features/users/auth/helper"
	"expedientes_backend/internals/features/users/auth/model"
)

// SeedUsers crea el usuario administrador inicial si la tabla está
// vacía. Las credenciales salen del entorno para no dejar contraseñas
// en el código.
func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.UserModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("🌱 Ya existen usuarios, seeder omitido")
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		log.Println("⚠️ ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD no definidos, seeder omitido")
		return nil
	}

	hash, err := authHelper.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.UserModel{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         constants.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Usuario administrador '%s' creado", username)
	return nil
}
