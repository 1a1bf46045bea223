// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"expedientes_backend/internals/configs"
)

// CorsMiddleware construye el middleware CORS.
// Los orígenes permitidos vienen de FRONTEND_URL (separados por coma)
// más los orígenes locales de desarrollo.
func CorsMiddleware() fiber.Handler {
	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if configs.FrontendURL != "" {
		for _, o := range strings.Split(configs.FrontendURL, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
