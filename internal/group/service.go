package group

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/yatube/pkg/validation"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrSlugTaken     = errors.New("group with this slug already exists")
)

// Service handles group business logic
type Service struct {
	repo *Repository
}

// NewService creates a new group service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new group
func (s *Service) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)

	if errs := validation.Struct(req); errs != nil {
		return nil, errs
	}

	return s.repo.Create(ctx, req)
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetBySlug retrieves a group by its slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Group, error) {
	group, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Exists reports whether a group with the given ID exists
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// List retrieves all groups
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}

// DeleteBySlug removes the group with the given slug and returns how many
// posts were detached from it
func (s *Service) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	group, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, group.ID)
}
