package handlers

import (
	"net/http"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/contact")

	group.POST("", h.Create)
	group.GET("/get-list", authMW, middleware.Require(auth.PermContactsRead), h.List)

	write := group.Group("", authMW, middleware.Require(auth.PermContactsWrite))
	{
		write.PATCH("/:id", h.SetViewed)
		write.DELETE("/delete-contact/:id", h.Delete)
	}
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.CreateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
	var query dto.ContactListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.contactService.List(h.GetDB(c), &query, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ContactHandler) SetViewed(c *gin.Context) {
	var req dto.UpdateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.SetViewed(h.GetDB(c), c.Param("id"), *req.IsViewed)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
