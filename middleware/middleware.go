package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dinerozz/focus-tracker-backend/internal/model/response/wrapper"
	service "github.com/dinerozz/focus-tracker-backend/internal/service/extension_user"
	redisService "github.com/dinerozz/focus-tracker-backend/internal/service/redis"
	"github.com/dinerozz/focus-tracker-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

func AuthenticationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Missing authentication token", Success: false})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			fmt.Println("Error validating token", err)
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Invalid authentication token", Success: false})
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Next()
	}
}

// APIKeyMiddleware middleware для проверки API ключей расширения
func APIKeyMiddleware(extensionUserService service.ExtensionUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")

		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
				Message: "X-API-Key header is required",
				Success: false,
			})
			c.Abort()
			return
		}

		user, err := extensionUserService.ValidateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
				Message: "Invalid or inactive API key",
				Success: false,
			})
			c.Abort()
			return
		}

		// Добавляем пользователя в контекст для использования в handlers
		c.Set("extension_user", user)
		c.Set("extension_user_id", user.ID.String())
		c.Set("extension_username", user.Username)

		c.Next()
	}
}

// RateLimitMiddleware ограничивает число запросов на один API ключ в окне
func RateLimitMiddleware(cache redisService.ServiceInterface, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil {
			c.Next()
			return
		}

		key := "ratelimit:" + c.GetString("extension_user_id")

		allowed, err := cache.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis недоступен — пропускаем, не блокируем трекинг
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, wrapper.ErrorWrapper{
				Message: "Rate limit exceeded",
				Success: false,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAPIKeyMiddleware middleware для опциональной проверки API ключа
// Если ключ предоставлен - валидирует его, если нет - пропускает
func OptionalAPIKeyMiddleware(extensionUserService service.ExtensionUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")

		if apiKey != "" {
			user, err := extensionUserService.ValidateAPIKey(c.Request.Context(), apiKey)
			if err == nil {
				c.Set("extension_user", user)
				c.Set("extension_user_id", user.ID.String())
				c.Set("extension_username", user.Username)
			}
		}

		c.Next()
	}
}
