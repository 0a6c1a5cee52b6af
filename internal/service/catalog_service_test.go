package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/repository"
	"github.com/linguamarket/linguamarket-api/internal/store"
)

type fakeCatalogSource struct {
	teachers []models.Teacher
	courses  []models.Course
	err      error
	seeded   bool
}

func (f *fakeCatalogSource) Teachers(context.Context) ([]models.Teacher, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teachers, nil
}

func (f *fakeCatalogSource) Courses(context.Context) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

func (f *fakeCatalogSource) Seed(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.seeded = true
	return nil
}

type fakeCatalogCache struct {
	entries map[string][]byte
	sets    int
}

func (f *fakeCatalogCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCatalogCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func TestCatalogLoadFromSource(t *testing.T) {
	entities := store.New()
	source := &fakeCatalogSource{
		teachers: []models.Teacher{{ID: "t1", FullName: "Remote Teacher"}},
		courses:  []models.Course{{ID: "c1", Title: "Remote Course"}},
	}
	cache := &fakeCatalogCache{}
	svc := NewCatalogService(source, cache, entities, time.Minute, zap.NewNop())

	svc.Load(context.Background())

	teachers := entities.Teachers()
	require.Len(t, teachers, 1)
	assert.Equal(t, "Remote Teacher", teachers[0].FullName)
	require.Len(t, entities.Courses(), 1)
	assert.Equal(t, 2, cache.sets)
}

func TestCatalogFallsBackToFixturesOnSourceError(t *testing.T) {
	entities := store.New()
	source := &fakeCatalogSource{err: errors.New("connection refused")}
	svc := NewCatalogService(source, nil, entities, time.Minute, zap.NewNop())

	svc.Load(context.Background())

	teachers := entities.Teachers()
	require.NotEmpty(t, teachers)
	assert.Equal(t, repository.FixtureTeachers()[0].ID, teachers[0].ID)
	assert.NotEmpty(t, entities.Courses())
}

func TestCatalogServesFixturesWithoutCollaborators(t *testing.T) {
	entities := store.New()
	svc := NewCatalogService(nil, nil, entities, time.Minute, zap.NewNop())

	svc.Load(context.Background())

	assert.Len(t, entities.Teachers(), len(repository.FixtureTeachers()))
	assert.Len(t, entities.Courses(), len(repository.FixtureCourses()))
}

func TestCatalogPrefersCache(t *testing.T) {
	entities := store.New()
	cache := &fakeCatalogCache{}
	require.NoError(t, cache.Set(context.Background(), "catalog:teachers", []models.Teacher{{ID: "cached", FullName: "Cached Teacher"}}, time.Minute))
	require.NoError(t, cache.Set(context.Background(), "catalog:courses", []models.Course{{ID: "cached-course"}}, time.Minute))
	cache.sets = 0

	source := &fakeCatalogSource{teachers: []models.Teacher{{ID: "remote"}}}
	svc := NewCatalogService(source, cache, entities, time.Minute, zap.NewNop())

	svc.Load(context.Background())

	teachers := entities.Teachers()
	require.Len(t, teachers, 1)
	assert.Equal(t, "cached", teachers[0].ID)
	assert.Zero(t, cache.sets)
}

func TestCatalogSeedRequiresSource(t *testing.T) {
	entities := store.New()
	svc := NewCatalogService(nil, nil, entities, time.Minute, zap.NewNop())

	err := svc.Seed(context.Background())
	require.Error(t, err)

	source := &fakeCatalogSource{}
	svc = NewCatalogService(source, nil, entities, time.Minute, zap.NewNop())
	require.NoError(t, svc.Seed(context.Background()))
	assert.True(t, source.seeded)
}
