package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/logger"
	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/sitemap"
)

var ErrArticleNotFound = errors.New("article not found")

// SitemapSyncer is notified after an article is created.
type SitemapSyncer interface {
	Sync(ctx context.Context, rebuild bool) (sitemap.Result, error)
}

// ArticleInput carries the writable article fields.
type ArticleInput struct {
	Title    string
	Slug     string
	Content  string
	Images   []string
	Keywords []string
}

// ArticleURL pairs an article with its public path.
type ArticleURL struct {
	Article domain.Article
	Segment string
	Path    string
}

type ArticleService interface {
	List(ctx context.Context, offset, limit int) ([]domain.Article, int64, error)
	// Lookup resolves a numeric id, then a slug, then a first-keyword segment.
	Lookup(ctx context.Context, lookup string) (*domain.Article, error)
	URLs(ctx context.Context) ([]ArticleURL, error)
	Create(ctx context.Context, in ArticleInput) (*domain.Article, error)
	Update(ctx context.Context, id int64, in ArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, id int64) error
}

type articleService struct {
	articleRepo repository.ArticleRepository
	sitemap     SitemapSyncer
	log         *logger.Logger
}

// NewArticleService wires the article store. syncer may be nil when no sitemap is maintained.
func NewArticleService(articleRepo repository.ArticleRepository, syncer SitemapSyncer, log *logger.Logger) ArticleService {
	return &articleService{articleRepo: articleRepo, sitemap: syncer, log: log}
}

func (s *articleService) List(ctx context.Context, offset, limit int) ([]domain.Article, int64, error) {
	return s.articleRepo.List(ctx, offset, limit)
}

func (s *articleService) Lookup(ctx context.Context, lookup string) (*domain.Article, error) {
	lookup = strings.TrimSpace(lookup)
	if lookup == "" {
		return nil, ErrArticleNotFound
	}

	if id, err := strconv.ParseInt(lookup, 10, 64); err == nil {
		a, err := s.articleRepo.GetByID(ctx, id)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	a, err := s.articleRepo.GetBySlug(ctx, lookup)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	urls, err := s.URLs(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range urls {
		if u.Segment == lookup {
			article := u.Article
			return &article, nil
		}
	}
	return nil, ErrArticleNotFound
}

func (s *articleService) URLs(ctx context.Context) ([]ArticleURL, error) {
	articles, _, err := s.articleRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	segments := sitemap.ResolveArticleSegments(articles)
	out := make([]ArticleURL, 0, len(articles))
	for _, a := range articles {
		seg := segments[a.ID]
		out = append(out, ArticleURL{Article: a, Segment: seg, Path: sitemap.ArticlePath(seg)})
	}
	return out, nil
}

// Create stores the article and then resyncs the sitemap. A sitemap failure is logged only.
func (s *articleService) Create(ctx context.Context, in ArticleInput) (*domain.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrValidationFailed
	}
	article := &domain.Article{}
	applyArticleInput(article, in)
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, mapWriteError(err)
	}

	if s.sitemap != nil {
		if _, err := s.sitemap.Sync(ctx, false); err != nil {
			s.log.Error("sitemap update after article create failed", "article_id", article.ID, "error", err)
		}
	}
	return article, nil
}

// Update does not touch the sitemap.
func (s *articleService) Update(ctx context.Context, id int64, in ArticleInput) (*domain.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrValidationFailed
	}
	existing, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if in.Slug == "" {
		in.Slug = existing.Slug
	}
	applyArticleInput(existing, in)
	if err := s.articleRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, mapWriteError(err)
	}
	return existing, nil
}

func (s *articleService) Delete(ctx context.Context, id int64) error {
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	return nil
}

func applyArticleInput(a *domain.Article, in ArticleInput) {
	a.Title = strings.TrimSpace(in.Title)
	a.Slug = in.Slug
	a.Content = in.Content
	a.Images = domain.StringList(in.Images)
	if a.Images == nil {
		a.Images = domain.StringList{}
	}
	a.Keywords = domain.StringList(in.Keywords)
	if a.Keywords == nil {
		a.Keywords = domain.StringList{}
	}
}
