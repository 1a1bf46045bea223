package seeds

import (
	"log"
	"os"

	"gorm.io/gorm"

	userSeed "expedientes_backend/internals/seeds/users"
)

// Run ejecuta los seeders habilitados por variables de entorno.
// Se invoca al arrancar, después de las migraciones.
func Run(db *gorm.DB) {
	if os.Getenv("INIT_SEED_USERS") == "true" {
		log.Println("🌱 Ejecutando seeder de usuarios...")
		if err := userSeed.SeedUsers(db); err != nil {
			log.Printf("❌ Seeder de usuarios falló: %v", err)
		}
	}
}
