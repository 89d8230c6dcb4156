package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/markdown"
	"heartwellness/fitness-cms/internal/service"
)

// excerptLength is the plain-text description length in article lists.
const excerptLength = 100

type ArticleHandler struct {
	articleService service.ArticleService
	renderer       *markdown.Renderer
	paginator      Paginator
	siteURL        string
}

func NewArticleHandler(articleService service.ArticleService, renderer *markdown.Renderer, paginator Paginator, siteURL string) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, renderer: renderer, paginator: paginator, siteURL: siteURL}
}

// --- DTOs ---

type ArticleRequest struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Slug     string   `json:"slug" binding:"omitempty,max=255"`
	Content  string   `json:"content"`
	Images   []string `json:"images"`
	Keywords []string `json:"keywords"`
}

type ArticleListResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
}

type ArticleDetailResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArticleURLResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func listOrEmpty(l domain.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func MapArticleToListResponse(a *domain.Article, renderer *markdown.Renderer) ArticleListResponse {
	return ArticleListResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: renderer.Excerpt(a.Content, excerptLength),
		Images:      listOrEmpty(a.Images),
		Keywords:    listOrEmpty(a.Keywords),
		CreatedAt:   a.CreatedAt,
	}
}

func MapArticlesToListResponse(articles []domain.Article, renderer *markdown.Renderer) []ArticleListResponse {
	out := make([]ArticleListResponse, len(articles))
	for i := range articles {
		out[i] = MapArticleToListResponse(&articles[i], renderer)
	}
	return out
}

func MapArticleToDetailResponse(a *domain.Article) ArticleDetailResponse {
	return ArticleDetailResponse{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Content:   a.Content,
		Images:    listOrEmpty(a.Images),
		Keywords:  listOrEmpty(a.Keywords),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func MapArticleURLToResponse(u service.ArticleURL, siteURL string) ArticleURLResponse {
	return ArticleURLResponse{
		ID:        u.Article.ID,
		Title:     u.Article.Title,
		Slug:      u.Article.Slug,
		Path:      u.Path,
		URL:       siteURL + u.Path,
		CreatedAt: u.Article.CreatedAt,
	}
}

// --- Handler Methods ---

// ListArticles godoc
// @Summary List articles, newest first
// @Tags Articles
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} PageResponse[ArticleListResponse]
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	paging, ok := h.paginator.Parse(c)
	if !ok {
		return
	}
	articles, total, err := h.articleService.List(c.Request.Context(), paging.Offset(), paging.PageSize)
	if err != nil {
		internalError(c, err, "Failed to retrieve articles.")
		return
	}
	c.JSON(http.StatusOK, NewPage(c, paging, total, MapArticlesToListResponse(articles, h.renderer)))
}

// GetArticle godoc
// @Summary Get an article by id, slug or keyword segment
// @Tags Articles
// @Produce json
// @Param lookup path string true "Numeric id, slug or first-keyword slug"
// @Success 200 {object} ArticleDetailResponse
// @Failure 404 {object} gin.H "Article not found"
// @Router /articles/{lookup} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	a, err := h.articleService.Lookup(c.Request.Context(), c.Param("lookup"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapArticleToDetailResponse(a))
}

// ListArticleURLs godoc
// @Summary Public URLs of every article
// @Tags Articles
// @Produce json
// @Success 200 {array} ArticleURLResponse
// @Router /article-urls [get]
func (h *ArticleHandler) ListArticleURLs(c *gin.Context) {
	urls, err := h.articleService.URLs(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to resolve article URLs.")
		return
	}
	out := make([]ArticleURLResponse, len(urls))
	for i, u := range urls {
		out[i] = MapArticleURLToResponse(u, h.siteURL)
	}
	c.JSON(http.StatusOK, out)
}

// CreateArticle godoc
// @Summary Create an article
// @Description Creating an article refreshes the sitemap.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param article body ArticleRequest true "Article"
// @Success 201 {object} ArticleDetailResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Slug already in use"
// @Router /admin/articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	a, err := h.articleService.Create(c.Request.Context(), service.ArticleInput(req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapArticleToDetailResponse(a))
}

// UpdateArticle godoc
// @Summary Update an article
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article id"
// @Param article body ArticleRequest true "Article"
// @Success 200 {object} ArticleDetailResponse
// @Failure 404 {object} gin.H "Article not found"
// @Router /admin/articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	a, err := h.articleService.Update(c.Request.Context(), id, service.ArticleInput(req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapArticleToDetailResponse(a))
}

// DeleteArticle godoc
// @Summary Delete an article
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Article id"
// @Success 204
// @Failure 404 {object} gin.H "Article not found"
// @Router /admin/articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArticleHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		internalError(c, err, "Failed to process article request.")
	}
}
