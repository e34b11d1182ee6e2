package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает liveness зависимых сервисов.
// Гейтвей готов, только если Importer и Plans отвечают.
func ReadinessProbe(upstreams map[string]string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}

	return func(c fiber.Ctx) error {
		services := fiber.Map{}
		ready := true

		for name, baseURL := range upstreams {
			resp, err := client.Get(baseURL + "/health/live")
			if err != nil || resp.StatusCode != http.StatusOK {
				services[name] = "down"
				ready = false
			} else {
				services[name] = "up"
			}
			if resp != nil {
				resp.Body.Close()
			}
		}

		status := "ready"
		code := http.StatusOK
		if !ready {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"services": services,
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
