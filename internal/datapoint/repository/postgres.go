package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-hierarchy/internal/datapoint/domain"

	sq "github.com/Masterminds/squirrel"
)

const datapointColumns = "id, name, value, unit, type, is_fresh, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewPostgresRepository returns a datapoint repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Create inserts d. ID, CreatedAt and UpdatedAt are assigned by the database.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Datapoint) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO datapoints (name, value, unit, type, is_fresh) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		d.Name, d.Value, nullString(d.Unit), nullString(d.Type), d.IsFresh,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// GetByID returns the datapoint for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Datapoint, error) {
	d, err := scanDatapoint(r.db.QueryRowContext(ctx, `SELECT `+datapointColumns+` FROM datapoints WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// Update applies the non-nil fields of u and bumps updated_at. Returns nil if id does not exist.
func (r *PostgresRepository) Update(ctx context.Context, id int64, u domain.Update) (*domain.Datapoint, error) {
	q := r.sb.Update("datapoints").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id}).Suffix("RETURNING " + datapointColumns)
	if u.Name != nil {
		q = q.Set("name", *u.Name)
	}
	if u.Value != nil {
		q = q.Set("value", *u.Value)
	}
	if u.Unit != nil {
		q = q.Set("unit", *u.Unit)
	}
	if u.Type != nil {
		q = q.Set("type", *u.Type)
	}
	if u.IsFresh != nil {
		q = q.Set("is_fresh", *u.IsFresh)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	d, err := scanDatapoint(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// Delete removes the datapoint; its association row is removed by cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datapoints WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByObject returns the datapoints owned by objectID, most recently updated first.
func (r *PostgresRepository) ListByObject(ctx context.Context, objectID int64) ([]*domain.Datapoint, error) {
	query, args, err := r.sb.
		Select("d.id, d.name, d.value, d.unit, d.type, d.is_fresh, d.created_at, d.updated_at").
		From("datapoints d").
		Join("object_datapoints od ON od.datapoint_id = d.id").
		Where(sq.Eq{"od.object_id": objectID}).
		OrderBy("d.updated_at DESC", "d.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Datapoint
	for rows.Next() {
		d, err := scanDatapoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDatapoint(s scanner) (*domain.Datapoint, error) {
	var (
		d          domain.Datapoint
		unit, kind sql.NullString
	)
	if err := s.Scan(&d.ID, &d.Name, &d.Value, &unit, &kind, &d.IsFresh, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if unit.Valid {
		d.Unit = &unit.String
	}
	if kind.Valid {
		d.Type = &kind.String
	}
	return &d, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
