package handlers

import (
	"net/http"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	*BaseHandler
	consultationService services.ConsultationService
}

func NewConsultationHandler(base *BaseHandler, consultationService services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{
		BaseHandler:         base,
		consultationService: consultationService,
	}
}

func (h *ConsultationHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/consultations")

	// Публичная форма
	group.POST("/add-consultation", h.Create)

	read := group.Group("", authMW, middleware.Require(auth.PermConsultationsRead))
	{
		read.GET("", h.List)
		read.GET("/:id", h.Get)
	}

	write := group.Group("", authMW, middleware.Require(auth.PermConsultationsWrite))
	{
		write.PATCH("/update-consultation-status/:id", h.UpdateStatus)
		write.PATCH("/add-comment/:id", h.AddComment)
		write.DELETE("/delete-consultation/:id", h.Delete)
	}
}

func (h *ConsultationHandler) Create(c *gin.Context) {
	var req dto.CreateConsultationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	consultation, err := h.consultationService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) List(c *gin.Context) {
	var query dto.ConsultationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.consultationService.List(h.GetDB(c), &query, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	detail, err := h.consultationService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	consultation, err := h.consultationService.UpdateStatus(h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func (h *ConsultationHandler) AddComment(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	detail, err := h.consultationService.AddComment(h.GetDB(c), c.Param("id"), identity.ID, req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ConsultationHandler) Delete(c *gin.Context) {
	if err := h.consultationService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consultation deleted"})
}
