package handlers

import (
	"net/http"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/auth")
	users.Use(authMW)
	{
		users.PATCH("/me", middleware.Require(auth.PermUsersUpdateSelf), h.UpdateMe)
		users.GET("/all-users", middleware.Require(auth.PermUsersList), h.ListUsers)
		users.POST("/add-user", middleware.Require(auth.PermUsersManage), h.CreateUser)
		users.PATCH("/users/:id", middleware.Require(auth.PermUsersManage), h.UpdateUser)
		users.DELETE("/users/:id", middleware.Require(auth.PermUsersManage), h.DeleteUser)
	}

	clients := rg.Group("/clients")
	clients.Use(authMW)
	{
		clients.POST("/create", middleware.Require(auth.PermClientsManage), h.CreateClient)
		clients.GET("/all", middleware.Require(auth.PermClientsManage), h.ListClients)
		clients.DELETE("/:clientId", middleware.Require(auth.PermClientsManage), h.DeleteClient)
		clients.GET("/profile", h.GetProfile)
		// self или manager/admin - проверяет сервис
		clients.PATCH("/update-user/:id", h.UpdateUser)
	}
}

// ============================================
// СОТРУДНИКИ
// ============================================

func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateMeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	users, err := h.userService.ListUsers(h.GetDB(c), models.UserRole(query.Role))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.CreateStaff(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ============================================
// КЛИЕНТЫ
// ============================================

func (h *UserHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.CreateClient(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListClients(c *gin.Context) {
	clients, err := h.userService.ListClients(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *UserHandler) DeleteClient(c *gin.Context) {
	if err := h.userService.DeleteClient(c.Request.Context(), h.GetDB(c), c.Param("clientId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
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
