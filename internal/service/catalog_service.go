package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/catalog"
	"github.com/gradeufla/planner-api/internal/dto"
	"github.com/gradeufla/planner-api/internal/models"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
)

// SubjectRepository abstracts catalog persistence for the service layer.
type SubjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	ListAll(ctx context.Context) ([]models.Subject, error)
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
	ReplaceAll(ctx context.Context, subjects []models.Subject) error
	Count(ctx context.Context) (int, error)
}

// CatalogService serves subject reads through the cache and orchestrates
// CSV imports.
type CatalogService struct {
	repo     SubjectRepository
	importer *catalog.Importer
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo SubjectRepository, importer *catalog.Importer, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		repo:     repo,
		importer: importer,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns subjects matching the query with pagination metadata.
func (s *CatalogService) List(ctx context.Context, query dto.SubjectQuery) ([]models.Subject, *models.Pagination, error) {
	filter := models.SubjectFilter{
		TermIndex: query.Term,
		Kind:      models.SubjectKind(query.Kind),
		Subgroup:  query.Subgroup,
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	start := time.Now()
	subjects, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("subjects_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one subject by code, read through the cache.
func (s *CatalogService) Get(ctx context.Context, code string) (*models.Subject, error) {
	code = catalog.NormalizeCode(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject code is required")
	}

	key := "catalog:subject:" + code
	var cached models.Subject
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	start := time.Now()
	subject, err := s.repo.FindByCode(ctx, code)
	s.metrics.ObserveDBQuery("subjects_find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("subject %s not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	_ = s.cache.Set(ctx, key, subject, s.cacheTTL)
	return subject, nil
}

// All returns the whole catalog, cached as one payload. The availability
// listing and exports read it on every call.
func (s *CatalogService) All(ctx context.Context) ([]models.Subject, error) {
	const key = "catalog:all"
	var cached []models.Subject
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	start := time.Now()
	subjects, err := s.repo.ListAll(ctx)
	s.metrics.ObserveDBQuery("subjects_list_all", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	_ = s.cache.Set(ctx, key, subjects, s.cacheTTL)
	return subjects, nil
}

// Import parses the CSV stream and, when every row is clean, replaces the
// whole catalog transactionally and drops the cache.
func (s *CatalogService) Import(ctx context.Context, r io.Reader) (*catalog.Report, error) {
	subjects, report, err := s.importer.Import(r)
	if err != nil {
		return report, err
	}

	start := time.Now()
	if err := s.repo.ReplaceAll(ctx, subjects); err != nil {
		s.metrics.ObserveDBQuery("subjects_replace", time.Since(start))
		return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store imported catalog")
	}
	s.metrics.ObserveDBQuery("subjects_replace", time.Since(start))

	if err := s.cache.Invalidate(ctx, "catalog:*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed after import", zap.Error(err))
	}

	s.logger.Info("catalog imported",
		zap.Int("subjects", report.Imported),
		zap.Int("rows", report.Rows),
	)
	return report, nil
}

// Ready reports whether the catalog backend is reachable.
func (s *CatalogService) Ready(ctx context.Context) error {
	if _, err := s.repo.Count(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "catalog storage unavailable")
	}
	return nil
}
