package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/markdown"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/service"
)

// listKeywords is how many generated keywords list views carry.
const listKeywords = 5

// MediaResolver turns a stored image object key into a public URL.
type MediaResolver func(key string) string

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	renderer        *markdown.Renderer
	paginator       Paginator
	media           MediaResolver
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, renderer *markdown.Renderer, paginator Paginator, media MediaResolver) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, renderer: renderer, paginator: paginator, media: media}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"omitempty,max=200"`
	BodyPartID  int64  `json:"body_part_id"`
	Description string `json:"description"`
	YouTubeURL  string `json:"youtube_url" binding:"omitempty,url"` // Optional, validated as URL if provided
	Image       string `json:"image"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	ImageWidth  *int   `json:"image_width" binding:"omitempty,min=1"`
	ImageHeight *int   `json:"image_height" binding:"omitempty,min=1"`
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Slug:        r.Slug,
		BodyPartID:  r.BodyPartID,
		Description: r.Description,
		YouTubeURL:  r.YouTubeURL,
		Image:       r.Image,
		ImageURL:    r.ImageURL,
		ImageWidth:  r.ImageWidth,
		ImageHeight: r.ImageHeight,
	}
}

// ExerciseListResponse is the compact exercise shape used by list endpoints.
type ExerciseListResponse struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	BodyPart         *BodyPartResponse `json:"body_part"`
	Image            string            `json:"image,omitempty"`
	ImageWidth       *int              `json:"image_width"`
	ImageHeight      *int              `json:"image_height"`
	URL              string            `json:"url"`
	YouTubeURL       string            `json:"youtube_url"`
	YouTubeEmbedURL  string            `json:"youtube_embed_url"`
	YouTubeThumbnail string            `json:"youtube_thumbnail"`
	AIGenerated      bool              `json:"ai_generated"`
	Keywords         []string          `json:"keywords"`
	CreatedAt        time.Time         `json:"created_at"`
}

type KeywordMappingResponse struct {
	Keyword        string             `json:"keyword"`
	ContentType    domain.ContentType `json:"content_type"`
	RelevanceScore float64            `json:"relevance_score"`
}

// ExerciseDetailResponse adds the rendered description and keyword mappings.
type ExerciseDetailResponse struct {
	ExerciseListResponse
	Description         string                   `json:"description"`
	DescriptionMarkdown string                   `json:"description_markdown"`
	DescriptionHTML     string                   `json:"description_html"`
	YouTubeThumbnailHD  string                   `json:"youtube_thumbnail_hd"`
	KeywordMappings     []KeywordMappingResponse `json:"keyword_mappings"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

type BodyPartStatsResponse struct {
	BodyPartID   int64  `json:"body_part_id"`
	BodyPartName string `json:"body_part_name"`
	BodyPartSlug string `json:"body_part_slug"`
	Total        int64  `json:"total"`
	WithVideo    int64  `json:"with_video"`
	WithoutVideo int64  `json:"without_video"`
	AIGenerated  int64  `json:"ai_generated"`
	Manual       int64  `json:"manual"`
}

type ExerciseStatsResponse struct {
	Total        int64                   `json:"total"`
	WithVideo    int64                   `json:"with_video"`
	WithoutVideo int64                   `json:"without_video"`
	AIGenerated  int64                   `json:"ai_generated"`
	Manual       int64                   `json:"manual"`
	ByBodyPart   []BodyPartStatsResponse `json:"by_body_part"`
}

// ExercisePath is the API path of an exercise detail.
func ExercisePath(bodyPartSlug, exerciseSlug string) string {
	return "/api/v1/exercises/" + bodyPartSlug + "/" + exerciseSlug
}

// MapExerciseToListResponse converts a domain.Exercise to the list DTO.
func MapExerciseToListResponse(ex *domain.Exercise, media MediaResolver) ExerciseListResponse {
	if ex == nil {
		return ExerciseListResponse{}
	}
	resp := ExerciseListResponse{
		ID:               ex.ID,
		Name:             ex.Name,
		Slug:             ex.Slug,
		Image:            exerciseImage(ex, media),
		ImageWidth:       ex.ImageWidth,
		ImageHeight:      ex.ImageHeight,
		YouTubeURL:       ex.YouTubeURL,
		YouTubeEmbedURL:  ex.YouTubeEmbedURL(),
		YouTubeThumbnail: ex.YouTubeThumbnailURL(""),
		AIGenerated:      ex.AIGenerated,
		Keywords:         []string(ex.GeneratedKeywords.Head(listKeywords)),
		CreatedAt:        ex.CreatedAt,
	}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	if ex.BodyPart != nil {
		bp := MapBodyPartToResponse(ex.BodyPart)
		resp.BodyPart = &bp
		resp.URL = ExercisePath(ex.BodyPart.Slug, ex.Slug)
	}
	return resp
}

// MapExercisesToListResponse converts a slice of domain.Exercise to list DTOs.
func MapExercisesToListResponse(exercises []domain.Exercise, media MediaResolver) []ExerciseListResponse {
	responses := make([]ExerciseListResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToListResponse(&exercises[i], media)
	}
	return responses
}

// MapExerciseToDetailResponse converts an exercise with mappings to the detail DTO.
func MapExerciseToDetailResponse(d *service.ExerciseDetails, renderer *markdown.Renderer, media MediaResolver) ExerciseDetailResponse {
	if d == nil || d.Exercise == nil {
		return ExerciseDetailResponse{}
	}
	ex := d.Exercise
	resp := ExerciseDetailResponse{
		ExerciseListResponse: MapExerciseToListResponse(ex, media),
		Description:          ex.Description,
		DescriptionMarkdown:  ex.Description,
		DescriptionHTML:      renderer.ToHTML(ex.Description),
		YouTubeThumbnailHD:   ex.YouTubeThumbnailURL("maxresdefault"),
		KeywordMappings:      make([]KeywordMappingResponse, 0, len(d.Mappings)),
		UpdatedAt:            ex.UpdatedAt,
	}
	resp.Keywords = []string(ex.GeneratedKeywords)
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	for _, m := range d.Mappings {
		resp.KeywordMappings = append(resp.KeywordMappings, KeywordMappingResponse{
			Keyword:        m.Keyword,
			ContentType:    m.ContentType,
			RelevanceScore: m.RelevanceScore,
		})
	}
	return resp
}

// MapStatsToResponse converts the library summary.
func MapStatsToResponse(s *service.ExerciseStats) ExerciseStatsResponse {
	resp := ExerciseStatsResponse{
		Total:        s.Total,
		WithVideo:    s.WithVideo,
		WithoutVideo: s.WithoutVideo,
		AIGenerated:  s.AIGenerated,
		Manual:       s.Manual,
		ByBodyPart:   make([]BodyPartStatsResponse, 0, len(s.ByBodyPart)),
	}
	for _, row := range s.ByBodyPart {
		resp.ByBodyPart = append(resp.ByBodyPart, BodyPartStatsResponse{
			BodyPartID:   row.BodyPartID,
			BodyPartName: row.BodyPartName,
			BodyPartSlug: row.BodyPartSlug,
			Total:        row.Total,
			WithVideo:    row.WithVideo,
			WithoutVideo: row.WithoutVideo(),
			AIGenerated:  row.AIGenerated,
			Manual:       row.Manual(),
		})
	}
	return resp
}

// exerciseImage prefers an uploaded object over an external image URL.
func exerciseImage(ex *domain.Exercise, media MediaResolver) string {
	if ex.Image != "" && media != nil {
		return media(ex.Image)
	}
	if ex.Image != "" {
		return ex.Image
	}
	return ex.ImageURL
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List exercises
// @Description Searches name, description and body-part name. Also served at /exercises/search with ?q=.
// @Tags Exercises
// @Produce json
// @Param search query string false "Search text"
// @Param ordering query string false "name, created_at or updated_at, '-' for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} PageResponse[ExerciseListResponse]
// @Failure 400 {object} gin.H "Unknown ordering"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	paging, ok := h.paginator.Parse(c)
	if !ok {
		return
	}
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}
	filter := repository.ExerciseFilter{
		Search:   strings.TrimSpace(search),
		Ordering: c.Query("ordering"),
		Offset:   paging.Offset(),
		Limit:    paging.PageSize,
	}

	exercises, total, err := h.exerciseService.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPage(c, paging, total, MapExercisesToListResponse(exercises, h.media)))
}

// ListByBodyPart godoc
// @Summary List exercises of a body part
// @Tags Exercises
// @Produce json
// @Param body_part_slug path string true "Body part slug"
// @Success 200 {object} PageResponse[ExerciseListResponse]
// @Failure 404 {object} gin.H "Body part not found"
// @Router /exercises/{body_part_slug} [get]
func (h *ExerciseHandler) ListByBodyPart(c *gin.Context) {
	paging, ok := h.paginator.Parse(c)
	if !ok {
		return
	}
	exercises, total, err := h.exerciseService.ListByBodyPart(c.Request.Context(), c.Param("body_part_slug"), paging.Offset(), paging.PageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPage(c, paging, total, MapExercisesToListResponse(exercises, h.media)))
}

// GetExercise godoc
// @Summary Get an exercise
// @Tags Exercises
// @Produce json
// @Param body_part_slug path string true "Body part slug"
// @Param exercise_slug path string true "Exercise slug"
// @Success 200 {object} ExerciseDetailResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{body_part_slug}/{exercise_slug} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	d, err := h.exerciseService.GetBySlugs(c.Request.Context(), c.Param("body_part_slug"), c.Param("exercise_slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToDetailResponse(d, h.renderer, h.media))
}

// GetStats godoc
// @Summary Exercise library statistics
// @Tags Exercises
// @Produce json
// @Success 200 {object} ExerciseStatsResponse
// @Router /exercise-stats [get]
func (h *ExerciseHandler) GetStats(c *gin.Context) {
	stats, err := h.exerciseService.Stats(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to compute exercise statistics.")
		return
	}
	c.JSON(http.StatusOK, MapStatsToResponse(stats))
}

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseDetailResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "Body part not found"
// @Failure 409 {object} gin.H "Slug already in use"
// @Router /admin/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.BodyPartID == 0 {
		abortWithError(c, http.StatusBadRequest, "Validation error: body_part_id is required")
		return
	}
	ex, err := h.exerciseService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToDetailResponse(&service.ExerciseDetails{Exercise: ex}, h.renderer, h.media))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise id"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} ExerciseDetailResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /admin/exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if _, err := h.exerciseService.Update(c.Request.Context(), id, req.toInput()); err != nil {
		h.handleError(c, err)
		return
	}
	d, err := h.exerciseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToDetailResponse(d, h.renderer, h.media))
}

func (h *ExerciseHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrBodyPartNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		internalError(c, err, "Failed to process exercise request.")
	}
}
