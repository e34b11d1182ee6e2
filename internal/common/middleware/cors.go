package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS разрешает браузерным клиентам ходить на гейтвей с любого
// источника. API принимает только GET/POST, из нестандартных
// заголовков нужен лишь Authorization для bearer-токенов.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	})
}
