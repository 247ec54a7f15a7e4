package handler

import (
	"errors"
	"net/http"
	"strings"

	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/internal/app/storefront/gateway"
	"meadowmarket/internal/app/storefront/service"
	"meadowmarket/internal/app/storefront/session"
	"meadowmarket/pkg/logger"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionMiddleware строит сессию запроса из Bearer токена.
// Невалидный токен даёт анонимную сессию, а не 401: каталог публичен.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		sess := manager.FromToken(token)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireAuthenticated пропускает только аутентифицированные сессии
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if !sess.Meets(session.StateAuthenticated) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов.
// Роль берётся через кешируемую выборку isAdmin; настоящая проверка
// прав выполняется backend'ом на каждой операции.
func RequireAdmin(queries *service.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if !sess.Meets(session.StateAuthenticated) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		isAdmin, err := queries.IsCallerAdmin(c.Request.Context(), sess)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, entity.ErrorResponse{
				Error:   "forbidden",
				Message: "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func sessionFrom(c *gin.Context) session.Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		return session.Session{State: session.StateUninitialized}
	}
	sess, ok := value.(session.Session)
	if !ok {
		return session.Session{State: session.StateUninitialized}
	}
	return sess
}

// respondError переводит ошибку сервисного слоя в HTTP ответ.
// Сообщение gateway доставляется пользователю дословно.
func respondError(c *gin.Context, err error) {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		status := gwErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, entity.ErrorResponse{
			Error:   "gateway_error",
			Message: gwErr.Message,
		})
		return
	}

	if errors.Is(err, service.ErrMutationInFlight) {
		c.JSON(http.StatusConflict, entity.ErrorResponse{
			Error:   "mutation_in_flight",
			Message: "This action is already in progress",
		})
		return
	}

	if errors.Is(err, service.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
		Error:   "internal_error",
		Message: "Internal server error",
	})
}
