package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"picklist/internal/common"
	"picklist/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// SelectionRepository is the ledger of user-product selection edges.
//
// Concurrency contract: Toggle is atomic per (user, product) pair and Clear
// is atomic with respect to concurrent toggles by the same user. Operations
// on disjoint keys never block each other. Readers observe every mutation
// entirely or not at all.
type SelectionRepository interface {
	// Toggle flips edge membership: inserts it if absent, removes it if
	// present. Returns the resulting membership. Unknown product or user
	// ids yield common.ErrNotFound.
	Toggle(ctx context.Context, userID string, productID int64) (selected bool, err error)
	// Clear removes every edge owned by userID. Idempotent; clearing a
	// user with no selections is not an error.
	Clear(ctx context.Context, userID string) error
	IsSelectedBy(ctx context.Context, productID int64, userID string) (bool, error)
	// SelectorsOf returns the users currently selecting the product,
	// ordered by username for stable serialization.
	SelectorsOf(ctx context.Context, productID int64) ([]model.User, error)
}

type pgSelectionRepository struct {
	db *sql.DB
}

func NewPgSelectionRepository(db *sql.DB) SelectionRepository {
	return &pgSelectionRepository{db: db}
}

// lockUserMutations takes a transaction-scoped advisory lock keyed by user
// id. Row locks cannot serialize toggles racing toward an edge that does
// not exist yet (there is no row to lock), so every mutation of a user's
// selection set acquires this lock first. Mutations for different users
// hash to different lock keys and proceed without contention, like the
// memory backend's shards.
func lockUserMutations(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID)
	if err != nil {
		return fmt.Errorf("advisory lock for user %s: %w", userID, err)
	}
	return nil
}

// Toggle runs in a single transaction under the per-user advisory lock, so
// concurrent toggles on the same pair apply one at a time and each caller
// observes the membership its own flip produced.
func (r *pgSelectionRepository) Toggle(ctx context.Context, userID string, productID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("pgSelectionRepository.Toggle begin: %w", err)
	}
	defer tx.Rollback()

	if err = lockUserMutations(ctx, tx, userID); err != nil {
		return false, fmt.Errorf("pgSelectionRepository.Toggle: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgSelectionRepository.Toggle product check: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("product %d: %w", productID, common.ErrNotFound)
	}

	var selection model.Selection
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, product_id, created_at FROM selections
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&selection.UserID, &selection.ProductID, &selection.CreatedAt)

	var selected bool
	switch {
	case err == nil:
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM selections WHERE user_id = $1 AND product_id = $2`,
			userID, productID); err != nil {
			return false, fmt.Errorf("pgSelectionRepository.Toggle delete: %w", err)
		}
		selected = false
	case errors.Is(err, sql.ErrNoRows):
		// A conflicting edge is impossible under the advisory lock, so
		// a plain insert suffices; a swallowed conflict here would fold
		// two toggles into one.
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO selections (user_id, product_id) VALUES ($1, $2)`,
			userID, productID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation
				return false, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
			}
			return false, fmt.Errorf("pgSelectionRepository.Toggle insert: %w", err)
		}
		selected = true
	default:
		return false, fmt.Errorf("pgSelectionRepository.Toggle read: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("pgSelectionRepository.Toggle commit: %w", err)
	}
	return selected, nil
}

// Clear takes the same per-user advisory lock as Toggle: a toggle can never
// interleave between the clear's read and write and resurrect an edge the
// clear was meant to remove.
func (r *pgSelectionRepository) Clear(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSelectionRepository.Clear begin: %w", err)
	}
	defer tx.Rollback()

	if err = lockUserMutations(ctx, tx, userID); err != nil {
		return fmt.Errorf("pgSelectionRepository.Clear: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM selections WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgSelectionRepository.Clear: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("pgSelectionRepository.Clear commit: %w", err)
	}
	return nil
}

func (r *pgSelectionRepository) IsSelectedBy(ctx context.Context, productID int64, userID string) (bool, error) {
	var selected bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM selections WHERE product_id = $1 AND user_id = $2)`,
		productID, userID,
	).Scan(&selected)
	if err != nil {
		return false, fmt.Errorf("pgSelectionRepository.IsSelectedBy: %w", err)
	}
	return selected, nil
}

func (r *pgSelectionRepository) SelectorsOf(ctx context.Context, productID int64) ([]model.User, error) {
	query := `SELECT u.id, u.username, u.email, u.hashed_password, u.active, u.created_at, u.updated_at
	          FROM selections s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.product_id = $1
	          ORDER BY u.username ASC, u.id ASC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("pgSelectionRepository.SelectorsOf: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSelectionRepository.SelectorsOf scan: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSelectionRepository.SelectorsOf rows.Err: %w", err)
	}
	return users, nil
}
