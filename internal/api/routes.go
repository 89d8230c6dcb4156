package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"heartwellness/fitness-cms/internal/domain" // Needed for RoleMiddleware
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/markdown"
	"heartwellness/fitness-cms/internal/service"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	JWTSecret   string
	CORSOrigins []string
	SiteURL     string
	Paginator   Paginator
	Media       MediaResolver
	Log         *logger.Logger

	AuthService     service.AuthService
	BodyPartService service.BodyPartService
	ExerciseService service.ExerciseService
	ArticleService  service.ArticleService
	UploadService   service.UploadService
	Sitemap         service.SitemapSyncer // nil disables the rebuild endpoint
}

// NewRouter builds the gin engine with the shared middleware stack and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(deps.Log), Metrics())
	router.Use(corsMiddleware(deps.CORSOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	SetupRoutes(router, deps)
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && strings.TrimSpace(origins[0]) == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	renderer := markdown.NewRenderer()

	authHandler := NewAuthHandler(deps.AuthService)
	bodyPartHandler := NewBodyPartHandler(deps.BodyPartService, deps.ExerciseService, deps.Paginator, deps.Media)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService, renderer, deps.Paginator, deps.Media)
	articleHandler := NewArticleHandler(deps.ArticleService, renderer, deps.Paginator, strings.TrimRight(deps.SiteURL, "/"))
	uploadHandler := NewUploadHandler(deps.UploadService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)

		apiV1.GET("/body-parts", bodyPartHandler.ListBodyParts)
		apiV1.GET("/body-parts/:slug", bodyPartHandler.GetBodyPart)
		apiV1.GET("/body-parts/:slug/exercises", bodyPartHandler.ListBodyPartExercises)
		apiV1.GET("/body-parts/:slug/recommendations", bodyPartHandler.Recommendations)

		apiV1.GET("/exercises", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/search", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/:body_part_slug", exerciseHandler.ListByBodyPart)
		apiV1.GET("/exercises/:body_part_slug/:exercise_slug", exerciseHandler.GetExercise)
		apiV1.GET("/exercise-stats", exerciseHandler.GetStats)

		apiV1.GET("/articles", articleHandler.ListArticles)
		apiV1.GET("/articles/:lookup", articleHandler.GetArticle)
		apiV1.GET("/article-urls", articleHandler.ListArticleURLs)
	}

	admin := apiV1.Group("/admin")
	admin.Use(AuthMiddleware(deps.JWTSecret))
	{
		admin.GET("/me", authHandler.Me)

		// Body parts own exercises, so writes are admin-only.
		adminOnly := RoleMiddleware(domain.RoleAdmin)
		admin.POST("/body-parts", adminOnly, bodyPartHandler.CreateBodyPart)
		admin.PUT("/body-parts/:id", adminOnly, bodyPartHandler.UpdateBodyPart)
		admin.DELETE("/body-parts/:id", adminOnly, bodyPartHandler.DeleteBodyPart)

		editors := RoleMiddleware(domain.RoleAdmin, domain.RoleEditor)
		admin.POST("/exercises", editors, exerciseHandler.CreateExercise)
		admin.PUT("/exercises/:id", editors, exerciseHandler.UpdateExercise)

		admin.POST("/articles", editors, articleHandler.CreateArticle)
		admin.PUT("/articles/:id", editors, articleHandler.UpdateArticle)
		admin.DELETE("/articles/:id", editors, articleHandler.DeleteArticle)

		admin.POST("/uploads/images", editors, uploadHandler.RequestImageUploads)

		if deps.Sitemap != nil {
			admin.POST("/sitemap/rebuild", adminOnly, NewSitemapHandler(deps.Sitemap).RebuildSitemap)
		}
	}
}
