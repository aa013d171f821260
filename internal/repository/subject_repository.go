package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/gradeufla/planner-api/internal/models"
)

// SubjectRepository handles persistence for the subject catalog.
// Prerequisites and sections are stored as JSONB documents; everything the
// planner filters on lives in plain columns.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

type subjectRow struct {
	Code          string         `db:"code"`
	Name          string         `db:"name"`
	Credits       int            `db:"credits"`
	Kind          string         `db:"kind"`
	TermIndex     int            `db:"term_index"`
	Subgroup      string         `db:"subgroup"`
	Prerequisites types.JSONText `db:"prerequisites"`
	Sections      types.JSONText `db:"sections"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

const subjectColumns = "code, name, credits, kind, term_index, subgroup, prerequisites, sections, created_at, updated_at"

func (row subjectRow) toModel() (models.Subject, error) {
	subject := models.Subject{
		Code:      row.Code,
		Name:      row.Name,
		Credits:   row.Credits,
		Kind:      models.SubjectKind(row.Kind),
		TermIndex: row.TermIndex,
		Subgroup:  row.Subgroup,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Prerequisites) > 0 {
		if err := json.Unmarshal(row.Prerequisites, &subject.Prerequisites); err != nil {
			return subject, fmt.Errorf("decode prerequisites for %s: %w", row.Code, err)
		}
	}
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &subject.Sections); err != nil {
			return subject, fmt.Errorf("decode sections for %s: %w", row.Code, err)
		}
	}
	return subject, nil
}

func toRow(subject models.Subject) (subjectRow, error) {
	prereq, err := json.Marshal(subject.Prerequisites)
	if err != nil {
		return subjectRow{}, fmt.Errorf("encode prerequisites for %s: %w", subject.Code, err)
	}
	sections, err := json.Marshal(subject.Sections)
	if err != nil {
		return subjectRow{}, fmt.Errorf("encode sections for %s: %w", subject.Code, err)
	}
	return subjectRow{
		Code:          subject.Code,
		Name:          subject.Name,
		Credits:       subject.Credits,
		Kind:          string(subject.Kind),
		TermIndex:     subject.TermIndex,
		Subgroup:      subject.Subgroup,
		Prerequisites: types.JSONText(prereq),
		Sections:      types.JSONText(sections),
		CreatedAt:     subject.CreatedAt,
		UpdatedAt:     subject.UpdatedAt,
	}, nil
}

// List returns subjects matching filters with a total count for pagination.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TermIndex > 0 {
		conditions = append(conditions, fmt.Sprintf("term_index = $%d", len(args)+1))
		args = append(args, filter.TermIndex)
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, string(filter.Kind))
	}
	if filter.Subgroup != "" {
		conditions = append(conditions, fmt.Sprintf("subgroup = $%d", len(args)+1))
		args = append(args, filter.Subgroup)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":       true,
		"name":       true,
		"term_index": true,
		"credits":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "code"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", subjectColumns, base, sortBy, order, size, offset)
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subject, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, total, nil
}

// ListAll returns the full catalog without pagination, for cache warming
// and availability computation.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects ORDER BY term_index, code", subjectColumns)
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all subjects: %w", err)
	}
	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subject, err := row.toModel()
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// FindByCode returns a subject by its normalized code.
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE code = $1", subjectColumns)
	var row subjectRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		return nil, err
	}
	subject, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ReplaceAll swaps the entire catalog inside one transaction. Imports are
// all or nothing, so the previous catalog survives any mid-batch failure.
func (r *SubjectRepository) ReplaceAll(ctx context.Context, subjects []models.Subject) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects"); err != nil {
		return fmt.Errorf("clear subjects: %w", err)
	}

	const insert = `INSERT INTO subjects (code, name, credits, kind, term_index, subgroup, prerequisites, sections, created_at, updated_at)
		VALUES (:code, :name, :credits, :kind, :term_index, :subgroup, :prerequisites, :sections, :created_at, :updated_at)`
	for _, subject := range subjects {
		row, err := toRow(subject)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert subject %s: %w", subject.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// Upsert inserts or updates a single subject by code.
func (r *SubjectRepository) Upsert(ctx context.Context, subject *models.Subject) error {
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	row, err := toRow(*subject)
	if err != nil {
		return err
	}

	const query = `INSERT INTO subjects (code, name, credits, kind, term_index, subgroup, prerequisites, sections, created_at, updated_at)
		VALUES (:code, :name, :credits, :kind, :term_index, :subgroup, :prerequisites, :sections, :created_at, :updated_at)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			credits = EXCLUDED.credits,
			kind = EXCLUDED.kind,
			term_index = EXCLUDED.term_index,
			subgroup = EXCLUDED.subgroup,
			prerequisites = EXCLUDED.prerequisites,
			sections = EXCLUDED.sections,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert subject %s: %w", subject.Code, err)
	}
	return nil
}

// Count returns the catalog size, used by the readiness probe.
func (r *SubjectRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM subjects"); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return total, nil
}
