package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fkhayef/yatube/pkg/pagination"
)

// Filter narrows a post listing. Nil fields match every post.
type Filter struct {
	GroupID  *int64
	AuthorID *int64
}

func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.GroupID != nil {
		args = append(args, *f.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

const postColumns = `p.id, p.text, p.pub_date, p.author_id, u.username, p.group_id, g.slug, g.title`

const postJoins = `
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id
`

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository handles post data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new post repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Count returns how many posts match the filter
func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	return count(ctx, r.db, f)
}

// ListPage counts the matching posts and reads the requested page of them
// inside one read-only REPEATABLE READ transaction.
func (r *Repository) ListPage(ctx context.Context, f Filter, rawPage string, perPage int) ([]*Post, pagination.Page, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	total, err := count(ctx, tx, f)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.New(rawPage, total, perPage)
	posts := []*Post{}
	if total > 0 {
		posts, err = list(ctx, tx, f, page.Limit(), page.Offset())
		if err != nil {
			return nil, pagination.Page{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, pagination.Page{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return posts, page, nil
}

func count(ctx context.Context, q queryer, f Filter) (int, error) {
	where, args := f.where()
	query := `SELECT COUNT(*) FROM posts p ` + where

	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// list retrieves a window of matching posts, newest first
func list(ctx context.Context, q queryer, f Filter, limit, offset int) ([]*Post, error) {
	where, args := f.where()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		%s
		%s
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, postJoins, where, len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// GetByID retrieves a post by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p ` + postJoins + ` WHERE p.id = $1`
	return r.getOne(ctx, "get", query, id)
}

// Create inserts a new post stamped with the current time
func (r *Repository) Create(ctx context.Context, text string, groupID *int64, authorID int64) (*Post, error) {
	query := `
		WITH p AS (
			INSERT INTO posts (text, author_id, group_id)
			VALUES ($1, $2, $3)
			RETURNING id, text, pub_date, author_id, group_id
		)
		SELECT ` + postColumns + ` FROM p ` + postJoins

	post, err := r.getOne(ctx, "create", query, text, authorID, groupID)
	if err == nil && post == nil {
		return nil, fmt.Errorf("failed to create post: %w", sql.ErrNoRows)
	}
	return post, err
}

// Update replaces the text and group of a post. It returns nil, nil when the
// post does not exist.
func (r *Repository) Update(ctx context.Context, id int64, text string, groupID *int64) (*Post, error) {
	query := `
		WITH p AS (
			UPDATE posts SET text = $2, group_id = $3
			WHERE id = $1
			RETURNING id, text, pub_date, author_id, group_id
		)
		SELECT ` + postColumns + ` FROM p ` + postJoins

	return r.getOne(ctx, "update", query, id, text, groupID)
}

func (r *Repository) getOne(ctx context.Context, op, query string, args ...any) (*Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s post: %w", op, err)
	}
	return post, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*Post, error) {
	var (
		post       Post
		groupID    sql.NullInt64
		groupSlug  sql.NullString
		groupTitle sql.NullString
	)

	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.PubDate,
		&post.AuthorID,
		&post.AuthorUsername,
		&groupID,
		&groupSlug,
		&groupTitle,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		post.GroupID = &groupID.Int64
	}
	if groupSlug.Valid {
		post.GroupSlug = &groupSlug.String
	}
	if groupTitle.Valid {
		post.GroupTitle = &groupTitle.String
	}

	return &post, nil
}
