package middleware

import (
	"strings"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/logger"
	"oriventa_backend/pkg/apperrors"
	"oriventa_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка сессии: cookie "token", запасной вариант - Authorization: Bearer
func AuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}

		identity, err := issuer.Resolve(token)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "rejected session token", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(string(contextkeys.IdentityKey), identity)
		c.Set(string(contextkeys.UserIDKey), identity.ID)
		c.Set(string(contextkeys.RoleKey), identity.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), identity.ID))

		c.Next()
	}
}

// Require - 403, если роли нет в таблице auth.Policy для permission.
// Ставится только после AuthMiddleware.
func Require(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}

		if !identity.Can(permission) {
			logger.CtxWarn(c.Request.Context(), "access denied",
				"permission", string(permission),
				"role", string(identity.Role),
				"path", c.Request.URL.Path,
			)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// GetIdentity извлекает проверенную личность из контекста
func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	val, exists := c.Get(string(contextkeys.IdentityKey))
	if !exists {
		return nil, false
	}
	identity, ok := val.(*auth.Identity)
	return identity, ok && identity != nil
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	identity, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	return identity.ID
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
