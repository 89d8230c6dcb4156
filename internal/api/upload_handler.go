package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/service"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

type ImageUploadRequest struct {
	Prefix    string   `json:"prefix" binding:"omitempty,oneof=exercises articles"`
	FileNames []string `json:"file_names" binding:"required,min=1,max=20,dive,required"`
}

type ImageUploadResponse struct {
	Uploads []service.UploadURLResponse `json:"uploads"`
}

// RequestImageUploads godoc
// @Summary Request presigned URLs for image uploads
// @Description Returns one PUT URL per file. Clients upload directly to storage and store the object key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImageUploadRequest true "File names"
// @Success 201 {object} ImageUploadResponse
// @Failure 400 {object} gin.H "No files or unsupported image type"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /admin/uploads/images [post]
func (h *UploadHandler) RequestImageUploads(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = "uploads"
	}
	uploads, err := h.uploadService.RequestImageUploadURLs(c.Request.Context(), prefix, req.FileNames)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImageType), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStorageDisabled):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			internalError(c, err, "Failed to get upload URL.")
		}
		return
	}
	c.JSON(http.StatusCreated, ImageUploadResponse{Uploads: uploads})
}
