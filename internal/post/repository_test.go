package post

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/yatube/internal/database/databasetest"
	"github.com/fkhayef/yatube/internal/group"
)

func TestRepository_CreateListUpdate(t *testing.T) {
	db := databasetest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)
	ctx := context.Background()

	authorID := databasetest.CreateUser(t, db, "auth")
	otherID := databasetest.CreateUser(t, db, "other")
	g, err := group.NewService(group.NewRepository(db)).Create(ctx, &group.CreateGroupRequest{
		Title:       "Тестовая группа",
		Slug:        "test_slug",
		Description: "Тестовое описание",
	})
	require.NoError(t, err)

	created, err := svc.Create(ctx, "Тестовый пост_123456", &g.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, "auth", created.AuthorUsername)
	require.NotNil(t, created.GroupSlug)
	assert.Equal(t, "test_slug", *created.GroupSlug)
	assert.False(t, created.PubDate.IsZero())

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, "filler", nil, otherID)
		require.NoError(t, err)
	}

	posts, page, err := svc.ListAll(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	assert.Len(t, posts, 3)
	// oldest post is last
	assert.Equal(t, created.ID, posts[len(posts)-1].ID)

	posts, page, err = svc.ListByGroup(ctx, g.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Тестовый пост_123456", posts[0].Text)

	count, err := svc.CountByAuthor(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	updated, err := svc.Update(ctx, created.ID, "edited", nil)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, created.AuthorID, updated.AuthorID)
	assert.True(t, created.PubDate.Equal(updated.PubDate))

	_, err = svc.Update(ctx, 9999, "nothing", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRepository_GroupDeleteKeepsPosts(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewService(NewRepository(db), nil)
	groups := group.NewService(group.NewRepository(db))
	ctx := context.Background()

	authorID := databasetest.CreateUser(t, db, "auth")
	g, err := groups.Create(ctx, &group.CreateGroupRequest{Title: "g", Slug: "g", Description: "d"})
	require.NoError(t, err)

	created, err := svc.Create(ctx, "survivor", &g.ID, authorID)
	require.NoError(t, err)

	_, err = groups.DeleteBySlug(ctx, "g")
	require.NoError(t, err)

	post, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "survivor", post.Text)
	assert.Nil(t, post.GroupID)
	assert.Nil(t, post.GroupSlug)
}

func TestRepository_ListPage(t *testing.T) {
	db := databasetest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)
	ctx := context.Background()

	authorID := databasetest.CreateUser(t, db, "auth")
	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, "post", nil, authorID)
		require.NoError(t, err)
	}

	posts, page, err := repo.ListPage(ctx, Filter{AuthorID: &authorID}, "9", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, posts, 2)

	missing := int64(9999)
	posts, page, err = repo.ListPage(ctx, Filter{GroupID: &missing}, "", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, posts)
}
