package handlers

import (
	"mime"
	"net/http"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/services/dto"
	"oriventa_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DossierHandler struct {
	*BaseHandler
	dossierService services.DossierService
	uploadLimit    int64
}

func NewDossierHandler(base *BaseHandler, dossierService services.DossierService, uploadLimit int64) *DossierHandler {
	return &DossierHandler{
		BaseHandler:    base,
		dossierService: dossierService,
		uploadLimit:    uploadLimit,
	}
}

func (h *DossierHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/dossiers")

	// Публичная форма кандидата
	group.POST("/add-candidate", middleware.BodyLimit(h.uploadLimit), h.Create)

	read := group.Group("", authMW, middleware.Require(auth.PermDossiersRead))
	{
		read.GET("", h.List)
		read.GET("/:id", h.Get)
		read.GET("/:id/archive", h.Archive)
		read.GET("/download-folder/:dossierNumber/:fullName", h.DownloadFolder)
	}

	write := group.Group("", authMW, middleware.Require(auth.PermDossiersWrite))
	{
		write.POST("/:id/files", middleware.BodyLimit(h.uploadLimit), h.UploadFiles)
		write.PATCH("/update-candidate-status/:id", h.UpdateStatus)
		write.PATCH("/add-comment/:id", h.AddComment)
		write.DELETE("/delete-candidate/:id", h.Delete)
	}
}

func (h *DossierHandler) Create(c *gin.Context) {
	var req dto.CreateDossierRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	files, ok := h.FormFiles(c)
	if !ok {
		return
	}

	dossier, err := h.dossierService.Create(c.Request.Context(), h.GetDB(c), &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dossier)
}

func (h *DossierHandler) List(c *gin.Context) {
	var query dto.DossierListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.dossierService.List(h.GetDB(c), &query, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *DossierHandler) Get(c *gin.Context) {
	detail, err := h.dossierService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *DossierHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	dossier, err := h.dossierService.UpdateStatus(h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dossier)
}

func (h *DossierHandler) AddComment(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	detail, err := h.dossierService.AddComment(h.GetDB(c), c.Param("id"), identity.ID, req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *DossierHandler) UploadFiles(c *gin.Context) {
	files, ok := h.FormFiles(c)
	if !ok {
		return
	}

	dossier, err := h.dossierService.UploadAssets(c.Request.Context(), h.GetDB(c), c.Param("id"), files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dossier)
}

func (h *DossierHandler) Delete(c *gin.Context) {
	if err := h.dossierService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dossier deleted"})
}

// ============================================
// АРХИВ
// ============================================

func (h *DossierHandler) Archive(c *gin.Context) {
	archive, err := h.dossierService.OpenArchive(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.streamArchive(c, archive)
}

func (h *DossierHandler) DownloadFolder(c *gin.Context) {
	archive, err := h.dossierService.OpenArchiveByKey(c.Request.Context(), h.GetDB(c), c.Param("dossierNumber"), c.Param("fullName"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.streamArchive(c, archive)
}

// streamArchive - без Content-Length; если поток оборвался после первого байта,
// соединение закрывается, и клиент не получает корректный zip
func (h *DossierHandler) streamArchive(c *gin.Context, archive *services.Archive) {
	header := c.Writer.Header()
	header.Set("Content-Type", "application/zip")
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": archive.Name}))
	c.Status(http.StatusOK)

	err := archive.WriteTo(c.Request.Context(), c.Writer)
	if err == nil {
		return
	}

	if !c.Writer.Written() {
		header.Del("Content-Type")
		header.Del("Content-Disposition")
		h.HandleServiceError(c, apperrors.ErrStorage(err, "failed to read dossier folder"))
		return
	}
	abortConnection(c)
}

// abortConnection рвет соединение без завершающего chunk
func abortConnection(c *gin.Context) {
	c.Abort()
	conn, _, err := c.Writer.Hijack()
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to hijack connection after archive error", err)
		return
	}
	_ = conn.Close()
}
