package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/service"
)

type BodyPartHandler struct {
	bodyPartService service.BodyPartService
	exerciseService service.ExerciseService
	paginator       Paginator
	media           MediaResolver
}

func NewBodyPartHandler(bodyPartService service.BodyPartService, exerciseService service.ExerciseService, paginator Paginator, media MediaResolver) *BodyPartHandler {
	return &BodyPartHandler{bodyPartService: bodyPartService, exerciseService: exerciseService, paginator: paginator, media: media}
}

// --- DTOs ---

type BodyPartResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type BodyPartRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
	Description string `json:"description"`
}

func MapBodyPartToResponse(bp *domain.BodyPart) BodyPartResponse {
	if bp == nil {
		return BodyPartResponse{}
	}
	return BodyPartResponse{ID: bp.ID, Name: bp.Name, Slug: bp.Slug, Description: bp.Description}
}

func MapBodyPartsToResponse(bps []domain.BodyPart) []BodyPartResponse {
	out := make([]BodyPartResponse, len(bps))
	for i := range bps {
		out[i] = MapBodyPartToResponse(&bps[i])
	}
	return out
}

// --- Handler Methods ---

// ListBodyParts godoc
// @Summary List body parts
// @Tags BodyParts
// @Produce json
// @Success 200 {array} BodyPartResponse
// @Router /body-parts [get]
func (h *BodyPartHandler) ListBodyParts(c *gin.Context) {
	bps, err := h.bodyPartService.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to retrieve body parts.")
		return
	}
	c.JSON(http.StatusOK, MapBodyPartsToResponse(bps))
}

// GetBodyPart godoc
// @Summary Get a body part by slug
// @Tags BodyParts
// @Produce json
// @Param slug path string true "Body part slug"
// @Success 200 {object} BodyPartResponse
// @Failure 404 {object} gin.H "Body part not found"
// @Router /body-parts/{slug} [get]
func (h *BodyPartHandler) GetBodyPart(c *gin.Context) {
	bp, err := h.bodyPartService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapBodyPartToResponse(bp))
}

// ListBodyPartExercises godoc
// @Summary List a body part's exercises
// @Tags BodyParts
// @Produce json
// @Param slug path string true "Body part slug"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} PageResponse[ExerciseListResponse]
// @Failure 404 {object} gin.H "Body part not found"
// @Router /body-parts/{slug}/exercises [get]
func (h *BodyPartHandler) ListBodyPartExercises(c *gin.Context) {
	paging, ok := h.paginator.Parse(c)
	if !ok {
		return
	}
	exercises, total, err := h.exerciseService.ListByBodyPart(c.Request.Context(), c.Param("slug"), paging.Offset(), paging.PageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPage(c, paging, total, MapExercisesToListResponse(exercises, h.media)))
}

// Recommendations godoc
// @Summary Random exercises from a body part
// @Tags BodyParts
// @Produce json
// @Param slug path string true "Body part slug"
// @Param limit query int false "Number of exercises (default 4, max 20)"
// @Param exclude query int false "Exercise id to leave out"
// @Success 200 {array} ExerciseListResponse
// @Failure 404 {object} gin.H "Body part not found"
// @Router /body-parts/{slug}/recommendations [get]
func (h *BodyPartHandler) Recommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	exclude, _ := strconv.ParseInt(c.Query("exclude"), 10, 64)

	exercises, err := h.bodyPartService.Recommendations(c.Request.Context(), c.Param("slug"), limit, exclude)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToListResponse(exercises, h.media))
}

// CreateBodyPart godoc
// @Summary Create a body part
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bodyPart body BodyPartRequest true "Body part"
// @Success 201 {object} BodyPartResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Slug already in use"
// @Router /admin/body-parts [post]
func (h *BodyPartHandler) CreateBodyPart(c *gin.Context) {
	var req BodyPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	bp, err := h.bodyPartService.Create(c.Request.Context(), service.BodyPartInput{Name: req.Name, Slug: req.Slug, Description: req.Description})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapBodyPartToResponse(bp))
}

// UpdateBodyPart godoc
// @Summary Update a body part
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Body part id"
// @Param bodyPart body BodyPartRequest true "Body part"
// @Success 200 {object} BodyPartResponse
// @Failure 404 {object} gin.H "Body part not found"
// @Router /admin/body-parts/{id} [put]
func (h *BodyPartHandler) UpdateBodyPart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BodyPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	bp, err := h.bodyPartService.Update(c.Request.Context(), id, service.BodyPartInput{Name: req.Name, Slug: req.Slug, Description: req.Description})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapBodyPartToResponse(bp))
}

// DeleteBodyPart godoc
// @Summary Delete a body part with its exercises
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Body part id"
// @Success 204
// @Failure 404 {object} gin.H "Body part not found"
// @Router /admin/body-parts/{id} [delete]
func (h *BodyPartHandler) DeleteBodyPart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.bodyPartService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BodyPartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBodyPartNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		internalError(c, err, "Failed to process body part request.")
	}
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format.")
		return 0, false
	}
	return id, true
}

// internalError attaches err for the request logger and hides it from the client.
func internalError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, message)
}
