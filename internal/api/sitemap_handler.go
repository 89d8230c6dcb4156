package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heartwellness/fitness-cms/internal/service"
)

type SitemapHandler struct {
	syncer service.SitemapSyncer
}

func NewSitemapHandler(syncer service.SitemapSyncer) *SitemapHandler {
	return &SitemapHandler{syncer: syncer}
}

// RebuildSitemap godoc
// @Summary Rewrite the sitemap from the database
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "written flag and URL count"
// @Failure 500 {object} gin.H "Sitemap could not be written"
// @Router /admin/sitemap/rebuild [post]
func (h *SitemapHandler) RebuildSitemap(c *gin.Context) {
	res, err := h.syncer.Sync(c.Request.Context(), true)
	if err != nil {
		internalError(c, err, "Failed to rebuild sitemap.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"written": res.Written, "urls": res.URLs})
}
