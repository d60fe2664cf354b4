package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/yatube/internal/group"
	"github.com/fkhayef/yatube/internal/user"
	"github.com/fkhayef/yatube/pkg/pagination"
)

// memStore keeps posts in memory and orders them like the postgres repository
type memStore struct {
	mu     sync.Mutex
	posts  []*Post
	nextID int64
	now    time.Time
	step   time.Duration
	users  map[int64]string
	groups map[int64]*group.Group
}

func newMemStore() *memStore {
	return &memStore{
		now:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		step:   time.Minute,
		users:  map[int64]string{},
		groups: map[int64]*group.Group{},
	}
}

func (s *memStore) matching(f Filter) []*Post {
	var out []*Post
	for _, p := range s.posts {
		if f.GroupID != nil && (p.GroupID == nil || *p.GroupID != *f.GroupID) {
			continue
		}
		if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *memStore) Count(ctx context.Context, f Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matching(f)), nil
}

func (s *memStore) ListPage(ctx context.Context, f Filter, rawPage string, perPage int) ([]*Post, pagination.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.matching(f)
	page := pagination.New(rawPage, len(all), perPage)

	offset := page.Offset()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + page.Limit()
	if end > len(all) {
		end = len(all)
	}

	out := make([]*Post, 0, end-offset)
	for _, p := range all[offset:end] {
		out = append(out, s.clone(p))
	}
	return out, page, nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return s.clone(p), nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(ctx context.Context, text string, groupID *int64, authorID int64) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p := &Post{
		ID:             s.nextID,
		Text:           text,
		PubDate:        s.now,
		AuthorID:       authorID,
		AuthorUsername: s.users[authorID],
		GroupID:        copyID(groupID),
	}
	s.now = s.now.Add(s.step)
	s.posts = append(s.posts, p)
	return s.clone(p), nil
}

func (s *memStore) Update(ctx context.Context, id int64, text string, groupID *int64) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			p.Text = text
			p.GroupID = copyID(groupID)
			return s.clone(p), nil
		}
	}
	return nil, nil
}

func (s *memStore) clone(p *Post) *Post {
	c := *p
	c.GroupID = copyID(p.GroupID)
	c.GroupSlug, c.GroupTitle = nil, nil
	if c.GroupID != nil {
		if g, ok := s.groups[*c.GroupID]; ok {
			slug, title := g.Slug, g.Title
			c.GroupSlug, c.GroupTitle = &slug, &title
		}
	}
	return &c
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// fakeGroups implements GroupFinder over a fixed set of groups
type fakeGroups struct {
	groups []*group.Group
}

func (f *fakeGroups) Exists(ctx context.Context, id int64) (bool, error) {
	for _, g := range f.groups {
		if g.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) GetBySlug(ctx context.Context, slug string) (*group.Group, error) {
	for _, g := range f.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, group.ErrGroupNotFound
}

func (f *fakeGroups) List(ctx context.Context) ([]*group.Group, error) {
	return f.groups, nil
}

// fakeAuthors implements AuthorFinder over a fixed set of users
type fakeAuthors struct {
	users []*user.User
}

func (f *fakeAuthors) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeAuthors) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// countingEvents records write notifications
type countingEvents struct {
	created, updated int
}

func (e *countingEvents) PostCreated() { e.created++ }
func (e *countingEvents) PostUpdated() { e.updated++ }

// fixture wires views over in-memory collaborators with two users and one group
type fixture struct {
	store   *memStore
	events  *countingEvents
	service *Service
	views   *Views
	author  *user.User
	other   *user.User
	group   *group.Group
}

func newFixture() *fixture {
	store := newMemStore()
	events := &countingEvents{}

	author := &user.User{ID: 1, Username: "auth", CreatedAt: store.now}
	other := &user.User{ID: 2, Username: "other", CreatedAt: store.now}
	g := &group.Group{ID: 1, Title: "Тестовая группа", Slug: "test_slug", Description: "Тестовое описание"}

	store.users[author.ID] = author.Username
	store.users[other.ID] = other.Username
	store.groups[g.ID] = g

	service := NewService(store, events)
	views := NewViews(
		service,
		&fakeGroups{groups: []*group.Group{g}},
		&fakeAuthors{users: []*user.User{author, other}},
		"/auth/login/",
	)

	return &fixture{
		store:   store,
		events:  events,
		service: service,
		views:   views,
		author:  author,
		other:   other,
		group:   g,
	}
}

func (f *fixture) seed(n int, authorID int64, groupID *int64) {
	for i := 0; i < n; i++ {
		f.store.Create(context.Background(), "post", groupID, authorID)
	}
}
