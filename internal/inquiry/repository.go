// Package inquiry archives delivered contact submissions in PostgreSQL.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boswecw/boswell/internal/contact"
	"github.com/boswecw/boswell/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultRecentLimit caps Recent when no positive limit is given.
const DefaultRecentLimit = 50

// Record is one archived inquiry.
type Record struct {
	ID           string
	Name         string
	Email        string
	Company      string
	Message      string
	Timeline     string
	Budget       string
	ProjectType  string
	PackageID    string
	PackageName  string
	PackagePrice string
	CreatedAt    time.Time
}

// NewRecord copies a delivered payload into a record.
func NewRecord(id string, p contact.Payload, at time.Time) Record {
	return Record{
		ID:           id,
		Name:         p.Name,
		Email:        p.Email,
		Company:      p.Company,
		Message:      p.Message,
		Timeline:     p.Timeline,
		Budget:       p.Budget,
		ProjectType:  p.ProjectType,
		PackageID:    p.SelectedPackageID,
		PackageName:  p.SelectedPackageName,
		PackagePrice: p.SelectedPackagePrice,
		CreatedAt:    at,
	}
}

// Repository handles inquiry data access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new inquiry repository.
// Returns error if pool is nil.
func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	return &Repository{pool: pool}, nil
}

var columns = []string{
	"id",
	"name",
	"email",
	"company",
	"message",
	"timeline",
	"budget",
	"project_type",
	"package_id",
	"package_name",
	"package_price",
	"created_at",
}

// Save inserts rec. Saving the same id twice is a no-op.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	query, args, err := insertQuery(rec)
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec insert: %w", err)
	}
	return nil
}

// Recent returns the newest inquiries first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	query, args, err := recentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent inquiries: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Email,
			&rec.Company,
			&rec.Message,
			&rec.Timeline,
			&rec.Budget,
			&rec.ProjectType,
			&rec.PackageID,
			&rec.PackageName,
			&rec.PackagePrice,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry rows: %w", err)
	}
	return records, nil
}

// Count returns the number of archived inquiries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	query, args, err := countQuery()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query inquiry count: %w", err)
	}
	return count, nil
}

func insertQuery(rec Record) (string, []any, error) {
	return database.QB.
		Insert(database.InquiriesTable).
		Columns(columns...).
		Values(
			rec.ID,
			rec.Name,
			rec.Email,
			rec.Company,
			rec.Message,
			rec.Timeline,
			rec.Budget,
			rec.ProjectType,
			rec.PackageID,
			rec.PackageName,
			rec.PackagePrice,
			rec.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

// recentQuery falls back to DefaultRecentLimit for non-positive limits.
func recentQuery(limit int) (string, []any, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return database.QB.
		Select(columns...).
		From(database.InquiriesTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
}

func countQuery() (string, []any, error) {
	return database.QB.
		Select("COUNT(*)").
		From(database.InquiriesTable).
		ToSql()
}
