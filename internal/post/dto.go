package post

import (
	"time"

	"github.com/fkhayef/yatube/internal/group"
	"github.com/fkhayef/yatube/internal/user"
	"github.com/fkhayef/yatube/pkg/pagination"
	"github.com/fkhayef/yatube/pkg/validation"
)

// PostForm represents the create and edit form
type PostForm struct {
	Text  string `form:"text" json:"text" validate:"notblank"`
	Group string `form:"group" json:"group"`
}

// AuthorRef is the author as embedded in a post
type AuthorRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// GroupRef is the group as embedded in a post
type GroupRef struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// PostResponse represents the response for a post
type PostResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	PubDate string    `json:"pub_date"`
	Author  AuthorRef `json:"author"`
	Group   *GroupRef `json:"group"`
}

// ToResponse converts a Post model to a PostResponse DTO
func (p *Post) ToResponse() *PostResponse {
	resp := &PostResponse{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate.UTC().Format(time.RFC3339),
		Author:  AuthorRef{ID: p.AuthorID, Username: p.AuthorUsername},
	}
	if p.GroupID != nil {
		resp.Group = &GroupRef{ID: *p.GroupID}
		if p.GroupSlug != nil {
			resp.Group.Slug = *p.GroupSlug
		}
		if p.GroupTitle != nil {
			resp.Group.Title = *p.GroupTitle
		}
	}
	return resp
}

// PostPage is one page of posts together with its position
type PostPage struct {
	pagination.Page
	Posts []*PostResponse `json:"posts"`
}

func newPostPage(posts []*Post, page pagination.Page) *PostPage {
	out := &PostPage{Page: page, Posts: make([]*PostResponse, 0, len(posts))}
	for _, p := range posts {
		out.Posts = append(out.Posts, p.ToResponse())
	}
	return out
}

// IndexData is exposed by the feed
type IndexData struct {
	PageObj *PostPage `json:"page_obj"`
}

// GroupData is exposed by the group feed
type GroupData struct {
	Group   *group.GroupResponse `json:"group"`
	PageObj *PostPage            `json:"page_obj"`
}

// ProfileData is exposed by the author profile
type ProfileData struct {
	Author    *user.UserResponse `json:"author"`
	PageObj   *PostPage          `json:"page_obj"`
	PostList  []*PostResponse    `json:"post_list"`
	PostCount int                `json:"post_count"`
}

// DetailData is exposed by the post detail page
type DetailData struct {
	Post      *PostResponse      `json:"post"`
	Author    *user.UserResponse `json:"author"`
	PostCount int                `json:"post_count"`
}

// FormData is exposed by the create and edit pages
type FormData struct {
	Form   PostForm               `json:"form"`
	Errors validation.Errors      `json:"errors,omitempty"`
	Groups []*group.GroupResponse `json:"groups"`
	IsEdit bool                   `json:"is_edit"`
	PostID int64                  `json:"post_id,omitempty"`
}
