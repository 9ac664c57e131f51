package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/hierarchy"
	"asset-hierarchy/internal/object/domain"

	sq "github.com/Masterminds/squirrel"
)

const objectColumns = "id, name, type, location_details, parent_id, created_at, updated_at"

// joinedSelect lists object columns followed by the left-joined datapoint columns.
const joinedSelect = `o.id, o.name, o.type, o.location_details, o.parent_id,
	d.id, d.name, d.value, d.unit, d.type, d.is_fresh, d.created_at, d.updated_at`

type PostgresRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewPostgresRepository returns an object repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Create inserts o. ID, CreatedAt and UpdatedAt are assigned by the database.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Object) error {
	details, err := encodeDetails(o.LocationDetails)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO objects (name, type, location_details, parent_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		o.Name, string(o.Type), details, nullInt64(o.ParentID),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// GetByID returns the object for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Object, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+objectColumns+` FROM objects WHERE id = $1`, id)
	o, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// List returns the children of f.ParentID (roots when nil), optionally narrowed by type, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.Object, error) {
	q := r.sb.Select(objectColumns).From("objects").OrderBy("name", "id")
	if f.ParentID != nil {
		q = q.Where(sq.Eq{"parent_id": *f.ParentID})
	} else {
		q = q.Where(sq.Eq{"parent_id": nil})
	}
	if f.Type != nil {
		q = q.Where(sq.Eq{"type": string(*f.Type)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Object
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// moveLockKey is the transaction-scoped advisory lock taken by every reparenting update. Holding it while
// the new parent's ancestors are read keeps two opposite moves from both passing the descendant check.
const moveLockKey int64 = 0x6173736574 // "asset"

// Update applies the non-nil fields of u and bumps updated_at. Returns nil if id does not exist.
// When u sets a parent, the update takes the move lock, reads the new parent's ancestor chain and passes it
// to checkParent (if not nil) before writing, all in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, id int64, u domain.Update, checkParent func([]hierarchy.ObjectRow) error) (*domain.Object, error) {
	q := r.sb.Update("objects").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id}).Suffix("RETURNING " + objectColumns)
	if u.Name != nil {
		q = q.Set("name", *u.Name)
	}
	if u.LocationDetails != nil {
		details, err := encodeDetails(u.LocationDetails)
		if err != nil {
			return nil, err
		}
		q = q.Set("location_details", details)
	}
	moving := false
	switch {
	case u.ClearParent:
		q = q.Set("parent_id", nil)
	case u.ParentID != nil:
		q = q.Set("parent_id", *u.ParentID)
		moving = true
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	if moving {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, moveLockKey); err != nil {
			return nil, fmt.Errorf("lock hierarchy moves: %w", err)
		}
		if checkParent != nil {
			chain, err := ancestors(ctx, tx, *u.ParentID)
			if err != nil {
				return nil, err
			}
			if err := checkParent(chain); err != nil {
				return nil, err
			}
		}
	}
	o, err := scanObject(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes the object; the schema cascades to descendants and associations.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM objects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll returns every object as a flat row, in id order.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]hierarchy.ObjectRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, location_details, parent_id FROM objects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []hierarchy.ObjectRow
	for rows.Next() {
		row, err := scanObjectRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListJoined returns every object left-joined with its datapoints.
func (r *PostgresRepository) ListJoined(ctx context.Context) ([]hierarchy.JoinedRow, error) {
	return r.queryJoined(ctx, `SELECT `+joinedSelect+`
		FROM objects o
		LEFT JOIN object_datapoints od ON od.object_id = o.id
		LEFT JOIN datapoints d ON d.id = od.datapoint_id
		ORDER BY o.id, d.id`)
}

// SubtreeJoined returns rootID and all of its descendants left-joined with their datapoints,
// shallowest first. It returns no rows when rootID does not exist.
func (r *PostgresRepository) SubtreeJoined(ctx context.Context, rootID int64) ([]hierarchy.JoinedRow, error) {
	return r.queryJoined(ctx, `WITH RECURSIVE subtree AS (
			SELECT id, 0 AS depth FROM objects WHERE id = $1
			UNION ALL
			SELECT c.id, s.depth + 1 FROM objects c JOIN subtree s ON c.parent_id = s.id
		)
		SELECT `+joinedSelect+`
		FROM subtree s
		JOIN objects o ON o.id = s.id
		LEFT JOIN object_datapoints od ON od.object_id = o.id
		LEFT JOIN datapoints d ON d.id = od.datapoint_id
		ORDER BY s.depth, o.id, d.id`, rootID)
}

// Ancestors walks parent links upward from id and returns the chain root first.
func (r *PostgresRepository) Ancestors(ctx context.Context, id int64) ([]hierarchy.ObjectRow, error) {
	return ancestors(ctx, r.db, id)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func ancestors(ctx context.Context, q queryer, id int64) ([]hierarchy.ObjectRow, error) {
	rows, err := q.QueryContext(ctx, `WITH RECURSIVE chain AS (
			SELECT id, name, type, location_details, parent_id, 0 AS depth FROM objects WHERE id = $1
			UNION ALL
			SELECT p.id, p.name, p.type, p.location_details, p.parent_id, c.depth + 1
			FROM objects p JOIN chain c ON p.id = c.parent_id
			WHERE c.depth < 1000
		)
		SELECT id, name, type, location_details, parent_id FROM chain ORDER BY depth DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []hierarchy.ObjectRow
	for rows.Next() {
		row, err := scanObjectRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) queryJoined(ctx context.Context, query string, args ...any) ([]hierarchy.JoinedRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []hierarchy.JoinedRow
	for rows.Next() {
		var (
			jr       hierarchy.JoinedRow
			objType  string
			details  []byte
			parentID sql.NullInt64

			dpID                 sql.NullInt64
			dpName, dpValue      sql.NullString
			dpUnit, dpType       sql.NullString
			dpFresh              sql.NullBool
			dpCreated, dpUpdated sql.NullTime
		)
		if err := rows.Scan(&jr.ID, &jr.Name, &objType, &details, &parentID,
			&dpID, &dpName, &dpValue, &dpUnit, &dpType, &dpFresh, &dpCreated, &dpUpdated); err != nil {
			return nil, err
		}
		jr.Type = domain.Type(objType)
		jr.ParentID = int64Ptr(parentID)
		if jr.LocationDetails, err = decodeDetails(details); err != nil {
			return nil, fmt.Errorf("object %d: %w", jr.ID, err)
		}
		if dpID.Valid {
			jr.Datapoint = &dpdomain.Datapoint{
				ID:        dpID.Int64,
				Name:      dpName.String,
				Value:     dpValue.String,
				Unit:      stringPtr(dpUnit),
				Type:      stringPtr(dpType),
				IsFresh:   dpFresh.Bool,
				CreatedAt: dpCreated.Time,
				UpdatedAt: dpUpdated.Time,
			}
		}
		out = append(out, jr)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObject(s scanner) (*domain.Object, error) {
	var (
		o        domain.Object
		objType  string
		details  []byte
		parentID sql.NullInt64
	)
	if err := s.Scan(&o.ID, &o.Name, &objType, &details, &parentID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Type = domain.Type(objType)
	o.ParentID = int64Ptr(parentID)
	var err error
	if o.LocationDetails, err = decodeDetails(details); err != nil {
		return nil, fmt.Errorf("object %d: %w", o.ID, err)
	}
	return &o, nil
}

func scanObjectRow(s scanner) (hierarchy.ObjectRow, error) {
	var (
		row      hierarchy.ObjectRow
		objType  string
		details  []byte
		parentID sql.NullInt64
	)
	if err := s.Scan(&row.ID, &row.Name, &objType, &details, &parentID); err != nil {
		return row, err
	}
	row.Type = domain.Type(objType)
	row.ParentID = int64Ptr(parentID)
	var err error
	if row.LocationDetails, err = decodeDetails(details); err != nil {
		return row, fmt.Errorf("object %d: %w", row.ID, err)
	}
	return row, nil
}

// encodeDetails returns the JSONB parameter for m: nil for SQL NULL, otherwise the JSON text.
func encodeDetails(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("location_details: %w", err)
	}
	return string(b), nil
}

func decodeDetails(b []byte) (map[string]any, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("location_details: %w", err)
	}
	return m, nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
