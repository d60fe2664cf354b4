package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/yatube/internal/database"
)

const slugConstraint = "groups_slug_key"

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, title, slug, description
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, req.Title, req.Slug, req.Description).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		if database.IsUniqueViolation(err, slugConstraint) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, title, slug, description
		FROM groups
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a group by its slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Group, error) {
	query := `
		SELECT id, title, slug, description
		FROM groups
		WHERE slug = $1
	`
	return r.getOne(ctx, query, slug)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Group, error) {
	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// Exists reports whether a group with the given ID exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group: %w", err)
	}
	return exists, nil
}

// List retrieves all groups ordered by title
func (r *Repository) List(ctx context.Context) ([]*Group, error) {
	query := `
		SELECT id, title, slug, description
		FROM groups
		ORDER BY title, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Title,
			&group.Slug,
			&group.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, nil
}

// Delete removes a group. Posts filed under it are kept and detached from
// the group within the same transaction. It returns the number of detached
// posts.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE posts SET group_id = NULL WHERE group_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to detach posts: %w", err)
	}
	detached, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, ErrGroupNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit group delete: %w", err)
	}

	return detached, nil
}
