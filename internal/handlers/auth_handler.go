package handlers

import (
	"net/http"
	"time"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService  services.AuthService
	userService  services.UserService
	secureCookie bool
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, userService services.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		authService:  authService,
		userService:  userService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes регистрирует вход, выход и текущего пользователя
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.GET("/logout", h.Logout)
		group.GET("/me", authMW, h.GetMe)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	session, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, session.Token, int(session.ExpiresIn.Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Role:    session.User.Role,
		User:    session.User,
	})
}

// Logout - токен не отзывается, cookie просто перезаписывается просроченной
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.GetMe(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
