package handlers

import (
	"mime/multipart"
	"net/http"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SuiviHandler struct {
	*BaseHandler
	suiviService services.SuiviService
	uploadLimit  int64
}

func NewSuiviHandler(base *BaseHandler, suiviService services.SuiviService, uploadLimit int64) *SuiviHandler {
	return &SuiviHandler{
		BaseHandler:  base,
		suiviService: suiviService,
		uploadLimit:  uploadLimit,
	}
}

func (h *SuiviHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/suivi", authMW)

	// Клиентский портал
	self := group.Group("/me", middleware.Require(auth.PermSuiviSelf))
	{
		self.GET("", h.GetOwn)
		self.GET("/file", h.DownloadOwnFile)
	}

	// Сотрудники
	group.GET("/:userId", middleware.Require(auth.PermSuiviRead), h.GetForUser)
	group.GET("/:userId/file", middleware.Require(auth.PermSuiviRead), h.DownloadFile)
	group.PATCH("/:userId", middleware.Require(auth.PermSuiviWrite), middleware.BodyLimit(h.uploadLimit), h.Upsert)
	group.DELETE("/:userId/file", middleware.Require(auth.PermSuiviWrite), h.DeleteFile)
}

func (h *SuiviHandler) GetOwn(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	suivi, err := h.suiviService.GetOwn(h.GetDB(c), identity.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suivi)
}

func (h *SuiviHandler) DownloadOwnFile(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	h.sendSuiviFile(c, identity.ID)
}

func (h *SuiviHandler) GetForUser(c *gin.Context) {
	suivi, err := h.suiviService.GetForUser(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suivi)
}

func (h *SuiviHandler) DownloadFile(c *gin.Context) {
	h.sendSuiviFile(c, c.Param("userId"))
}

func (h *SuiviHandler) Upsert(c *gin.Context) {
	var req dto.UpsertSuiviRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	files, ok := h.FormFiles(c)
	if !ok {
		return
	}

	var cvFiles, lmFiles []*multipart.FileHeader
	for _, f := range files {
		switch f.Field {
		case services.SuiviFieldCV:
			cvFiles = append(cvFiles, f.Header)
		case services.SuiviFieldLM:
			lmFiles = append(lmFiles, f.Header)
		default:
			h.HandleServiceError(c, apperrors.ValidationError(map[string]string{f.Field: "Unexpected file field"}))
			return
		}
	}

	suivi, err := h.suiviService.Upsert(c.Request.Context(), h.GetDB(c), c.Param("userId"), &req, cvFiles, lmFiles)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suivi)
}

func (h *SuiviHandler) DeleteFile(c *gin.Context) {
	var req dto.DeleteSuiviFileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	suivi, err := h.suiviService.DeleteFile(c.Request.Context(), h.GetDB(c), c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suivi)
}

func (h *SuiviHandler) sendSuiviFile(c *gin.Context, userID string) {
	var query dto.SuiviFileQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	rc, name, err := h.suiviService.OpenFile(c.Request.Context(), h.GetDB(c), userID, query.Path)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.SendFile(c, rc, name)
}
