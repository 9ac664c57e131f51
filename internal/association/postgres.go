package association

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

// PostgresStore implements Store on database/sql (pgx driver).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store that runs association transactions on db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithinTx begins a transaction, runs fn, and commits on success or rolls back on error.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&postgresTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("association: rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) LockDatapoint(ctx context.Context, datapointID int64) (bool, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT id FROM datapoints WHERE id = $1 FOR UPDATE`, datapointID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (t *postgresTx) ObjectExists(ctx context.Context, objectID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM objects WHERE id = $1)`, objectID).Scan(&exists)
	return exists, err
}

func (t *postgresTx) DeleteByDatapoint(ctx context.Context, datapointID int64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM object_datapoints WHERE datapoint_id = $1`, datapointID)
	return err
}

func (t *postgresTx) Insert(ctx context.Context, objectID, datapointID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO object_datapoints (object_id, datapoint_id, last_updated) VALUES ($1, $2, $3)`,
		objectID, datapointID, time.Now().UTC())
	return err
}

func (t *postgresTx) OwnerOf(ctx context.Context, datapointID int64) (*int64, error) {
	var objectID int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT object_id FROM object_datapoints WHERE datapoint_id = $1 ORDER BY last_updated DESC LIMIT 1`,
		datapointID).Scan(&objectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &objectID, nil
}
