package post

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/yatube/pkg/pagination"
)

// Common errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyText    = errors.New("post text must not be empty")
)

// Store is the persistence the post service needs
type Store interface {
	Count(ctx context.Context, f Filter) (int, error)
	ListPage(ctx context.Context, f Filter, rawPage string, perPage int) ([]*Post, pagination.Page, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, text string, groupID *int64, authorID int64) (*Post, error)
	Update(ctx context.Context, id int64, text string, groupID *int64) (*Post, error)
}

// Events is notified after posts are written
type Events interface {
	PostCreated()
	PostUpdated()
}

type noEvents struct{}

func (noEvents) PostCreated() {}
func (noEvents) PostUpdated() {}

// Service handles post business logic
type Service struct {
	repo    Store
	events  Events
	perPage int
}

// NewService creates a new post service. events may be nil.
func NewService(repo Store, events Events) *Service {
	if events == nil {
		events = noEvents{}
	}
	return &Service{repo: repo, events: events, perPage: pagination.PostsPerPage}
}

// ListAll returns the requested page of the global feed
func (s *Service) ListAll(ctx context.Context, rawPage string) ([]*Post, pagination.Page, error) {
	return s.list(ctx, Filter{}, rawPage)
}

// ListByGroup returns the requested page of a group's posts
func (s *Service) ListByGroup(ctx context.Context, groupID int64, rawPage string) ([]*Post, pagination.Page, error) {
	return s.list(ctx, Filter{GroupID: &groupID}, rawPage)
}

// ListByAuthor returns the requested page of an author's posts. The page's
// Total is the author's post count.
func (s *Service) ListByAuthor(ctx context.Context, authorID int64, rawPage string) ([]*Post, pagination.Page, error) {
	return s.list(ctx, Filter{AuthorID: &authorID}, rawPage)
}

// CountByAuthor returns how many posts the author has written
func (s *Service) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return s.repo.Count(ctx, Filter{AuthorID: &authorID})
}

func (s *Service) list(ctx context.Context, f Filter, rawPage string) ([]*Post, pagination.Page, error) {
	posts, page, err := s.repo.ListPage(ctx, f, rawPage, s.perPage)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return posts, page, nil
}

// GetByID retrieves a post by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create stores a new post by authorID
func (s *Service) Create(ctx context.Context, text string, groupID *int64, authorID int64) (*Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	post, err := s.repo.Create(ctx, text, groupID, authorID)
	if err != nil {
		return nil, err
	}

	s.events.PostCreated()
	return post, nil
}

// Update replaces the text and group of an existing post. Author and
// publication date never change.
func (s *Service) Update(ctx context.Context, id int64, text string, groupID *int64) (*Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	post, err := s.repo.Update(ctx, id, text, groupID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	s.events.PostUpdated()
	return post, nil
}
