package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

// CatalogRepository fetches the teacher and course catalogs from Postgres.
// It is a read-mostly collaborator: the in-memory store remains authoritative
// for everything derived (ratings, bookings, progress).
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type teacherRow struct {
	ID           string         `db:"id"`
	FullName     string         `db:"full_name"`
	Email        string         `db:"email"`
	Niches       pq.StringArray `db:"niches"`
	HourlyRate   float64        `db:"hourly_rate"`
	Verified     bool           `db:"verified"`
	Availability []byte         `db:"availability"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type courseRow struct {
	ID      string  `db:"id"`
	Title   string  `db:"title"`
	Topic   string  `db:"topic"`
	Level   string  `db:"level"`
	Price   float64 `db:"price"`
	Modules []byte  `db:"modules"`
}

// Teachers returns the full teacher catalog ordered by creation time.
func (r *CatalogRepository) Teachers(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, full_name, email, niches, hourly_rate, verified, availability, created_at, updated_at FROM teachers ORDER BY created_at ASC`
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	teachers := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		t := models.Teacher{
			ID:         row.ID,
			FullName:   row.FullName,
			Email:      row.Email,
			Niches:     append([]string(nil), row.Niches...),
			HourlyRate: row.HourlyRate,
			Verified:   row.Verified,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		}
		if len(row.Availability) > 0 {
			if err := json.Unmarshal(row.Availability, &t.Availability); err != nil {
				return nil, fmt.Errorf("decode availability for teacher %s: %w", row.ID, err)
			}
		}
		teachers = append(teachers, t)
	}
	return teachers, nil
}

// Courses returns the full course catalog ordered by title.
func (r *CatalogRepository) Courses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, title, topic, level, price, modules FROM courses ORDER BY title ASC`
	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		c := models.Course{
			ID:    row.ID,
			Title: row.Title,
			Topic: row.Topic,
			Level: row.Level,
			Price: row.Price,
		}
		if len(row.Modules) > 0 {
			if err := json.Unmarshal(row.Modules, &c.Modules); err != nil {
				return nil, fmt.Errorf("decode modules for course %s: %w", row.ID, err)
			}
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Seed inserts the built-in fixture catalog, skipping rows that already exist.
func (r *CatalogRepository) Seed(ctx context.Context) error {
	const teacherStmt = `INSERT INTO teachers (id, full_name, email, niches, hourly_rate, verified, availability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`
	const courseStmt = `INSERT INTO courses (id, title, topic, level, price, modules)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range FixtureTeachers() {
		availability, err := json.Marshal(t.Availability)
		if err != nil {
			return fmt.Errorf("encode availability for teacher %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, teacherStmt, t.ID, t.FullName, t.Email, pq.StringArray(t.Niches), t.HourlyRate, t.Verified, availability, t.CreatedAt, t.UpdatedAt); err != nil {
			return fmt.Errorf("seed teacher %s: %w", t.ID, err)
		}
	}

	for _, c := range FixtureCourses() {
		modules, err := json.Marshal(c.Modules)
		if err != nil {
			return fmt.Errorf("encode modules for course %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, courseStmt, c.ID, c.Title, c.Topic, c.Level, c.Price, modules); err != nil {
			return fmt.Errorf("seed course %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
