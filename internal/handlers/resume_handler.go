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

const receiptField = "paymentReceipt"

type ResumeHandler struct {
	*BaseHandler
	resumeService services.ResumeService
	uploadLimit   int64
}

func NewResumeHandler(base *BaseHandler, resumeService services.ResumeService, uploadLimit int64) *ResumeHandler {
	return &ResumeHandler{
		BaseHandler:   base,
		resumeService: resumeService,
		uploadLimit:   uploadLimit,
	}
}

func (h *ResumeHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := rg.Group("/creation")

	group.POST("/add-resume", middleware.BodyLimit(h.uploadLimit), h.Create)

	read := group.Group("", authMW, middleware.Require(auth.PermResumesRead))
	{
		read.GET("", h.List)
		read.GET("/:id", h.Get)
		read.GET("/download/:filename", h.DownloadReceipt)
	}

	write := group.Group("", authMW, middleware.Require(auth.PermResumesWrite))
	{
		write.PATCH("/update-status/:id", h.UpdateStatus)
		write.DELETE("/:id/receipt", h.DeleteReceipt)
		write.DELETE("/delete-resume/:id", h.Delete)
	}
}

func (h *ResumeHandler) Create(c *gin.Context) {
	var req dto.CreateResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	files, ok := h.FormFiles(c)
	if !ok {
		return
	}
	var receipt *services.FileUpload
	for i := range files {
		if files[i].Field != receiptField || receipt != nil {
			h.HandleServiceError(c, apperrors.ValidationError(map[string]string{
				files[i].Field: "Only one paymentReceipt file is accepted",
			}))
			return
		}
		receipt = &files[i]
	}

	var header *multipart.FileHeader
	if receipt != nil {
		header = receipt.Header
	}

	resume, err := h.resumeService.Create(c.Request.Context(), h.GetDB(c), &req, header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resume)
}

func (h *ResumeHandler) List(c *gin.Context) {
	var query dto.ResumeListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.resumeService.List(h.GetDB(c), &query, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumeService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resume, err := h.resumeService.UpdateStatus(h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) DownloadReceipt(c *gin.Context) {
	rc, name, err := h.resumeService.OpenReceipt(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.SendFile(c, rc, name)
}

func (h *ResumeHandler) DeleteReceipt(c *gin.Context) {
	resume, err := h.resumeService.DeletePaymentReceipt(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	if err := h.resumeService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted"})
}
