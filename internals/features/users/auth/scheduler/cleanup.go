package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"expedientes_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler elimina de forma periódica los tokens
// de la blacklist que ya expiraron por sí solos.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		for {
			log.Println("[CLEANUP] Limpiando token_blacklist...")

			res := db.Where("expired_at < ?", time.Now().UTC()).Delete(&model.TokenBlacklist{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] No se pudieron eliminar tokens: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d tokens expirados eliminados", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
