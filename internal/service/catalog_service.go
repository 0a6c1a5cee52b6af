package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/repository"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type catalogSource interface {
	Teachers(ctx context.Context) ([]models.Teacher, error)
	Courses(ctx context.Context) ([]models.Course, error)
	Seed(ctx context.Context) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type catalogStore interface {
	ReplaceTeachers(teachers []models.Teacher)
	ReplaceCourses(courses []models.Course)
}

const (
	cacheKeyTeachers = "catalog:teachers"
	cacheKeyCourses  = "catalog:courses"
)

// CatalogService loads the teacher and course catalogs into the entity
// store. Remote failures degrade to the built-in fixtures; collections are
// always swapped whole, never merged.
type CatalogService struct {
	source   catalogSource
	cache    catalogCache
	store    catalogStore
	cacheTTL time.Duration
	logger   *zap.Logger

	fixtureTeachers func() []models.Teacher
	fixtureCourses  func() []models.Course
}

// NewCatalogService constructs a CatalogService. Source and cache may be nil;
// the service then serves fixtures only.
func NewCatalogService(source catalogSource, cache catalogCache, store catalogStore, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CatalogService{
		source:          source,
		cache:           cache,
		store:           store,
		cacheTTL:        cacheTTL,
		logger:          logger,
		fixtureTeachers: repository.FixtureTeachers,
		fixtureCourses:  repository.FixtureCourses,
	}
}

// Load fetches both catalogs and applies them to the store as atomic
// replacements. It never fails hard: any collaborator error falls back to
// cached or fixture data.
func (s *CatalogService) Load(ctx context.Context) {
	s.store.ReplaceTeachers(s.loadTeachers(ctx))
	s.store.ReplaceCourses(s.loadCourses(ctx))
}

// Seed pushes the fixture catalog into the remote store. Requires a source.
func (s *CatalogService) Seed(ctx context.Context) error {
	if s.source == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "no remote catalog configured")
	}
	if err := s.source.Seed(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed catalog")
	}
	return nil
}

func (s *CatalogService) loadTeachers(ctx context.Context) []models.Teacher {
	if s.cache != nil {
		var cached []models.Teacher
		if err := s.cache.Get(ctx, cacheKeyTeachers, &cached); err == nil && len(cached) > 0 {
			return cached
		} else if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", cacheKeyTeachers), zap.Error(err))
		}
	}

	if s.source != nil {
		teachers, err := s.source.Teachers(ctx)
		if err == nil {
			s.writeCache(ctx, cacheKeyTeachers, teachers)
			return teachers
		}
		s.logger.Warn("remote teacher catalog unreachable, serving fixtures", zap.Error(err))
	}

	return s.fixtureTeachers()
}

func (s *CatalogService) loadCourses(ctx context.Context) []models.Course {
	if s.cache != nil {
		var cached []models.Course
		if err := s.cache.Get(ctx, cacheKeyCourses, &cached); err == nil && len(cached) > 0 {
			return cached
		} else if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", cacheKeyCourses), zap.Error(err))
		}
	}

	if s.source != nil {
		courses, err := s.source.Courses(ctx)
		if err == nil {
			s.writeCache(ctx, cacheKeyCourses, courses)
			return courses
		}
		s.logger.Warn("remote course catalog unreachable, serving fixtures", zap.Error(err))
	}

	return s.fixtureCourses()
}

func (s *CatalogService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
