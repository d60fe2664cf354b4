package post

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fkhayef/yatube/internal/auth"
	"github.com/fkhayef/yatube/internal/group"
	"github.com/fkhayef/yatube/internal/user"
	"github.com/fkhayef/yatube/pkg/response"
	"github.com/fkhayef/yatube/pkg/validation"
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// GroupFinder resolves groups for the feeds and the post form
type GroupFinder interface {
	GetBySlug(ctx context.Context, slug string) (*group.Group, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*group.Group, error)
}

// AuthorFinder resolves post authors
type AuthorFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// Request is everything a view reads from the incoming request
type Request struct {
	Method string
	Path   string
	Page   string
	Form   url.Values
	Viewer *auth.Identity
}

// Result is what a view hands back for rendering. Redirect, when set, takes
// precedence over Data.
type Result struct {
	Status   int
	Data     any
	Meta     *response.Meta
	Redirect string
	Message  string
}

func ok(data any, meta *response.Meta) *Result {
	return &Result{Status: http.StatusOK, Data: data, Meta: meta}
}

func redirect(target string) *Result {
	return &Result{Status: http.StatusFound, Redirect: target}
}

func notFound(message string) *Result {
	return &Result{Status: http.StatusNotFound, Message: message}
}

// FormResult is the outcome of validating a submitted post form
type FormResult struct {
	Text    string
	GroupID *int64
	Errors  validation.Errors
}

// Valid reports whether the form had no errors
func (f *FormResult) Valid() bool {
	return len(f.Errors) == 0
}

// Views implements the post pages on top of the post, group and user services
type Views struct {
	posts    *Service
	groups   GroupFinder
	authors  AuthorFinder
	loginURL string
}

// NewViews creates the post views
func NewViews(posts *Service, groups GroupFinder, authors AuthorFinder, loginURL string) *Views {
	return &Views{
		posts:    posts,
		groups:   groups,
		authors:  authors,
		loginURL: loginURL,
	}
}

// Index shows the global feed
func (v *Views) Index(ctx context.Context, req *Request) (*Result, error) {
	posts, page, err := v.posts.ListAll(ctx, req.Page)
	if err != nil {
		return nil, err
	}
	return ok(&IndexData{PageObj: newPostPage(posts, page)}, page.Meta()), nil
}

// GroupPosts shows the feed of one group
func (v *Views) GroupPosts(ctx context.Context, req *Request, slug string) (*Result, error) {
	g, err := v.groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return notFound("Group not found"), nil
		}
		return nil, err
	}

	posts, page, err := v.posts.ListByGroup(ctx, g.ID, req.Page)
	if err != nil {
		return nil, err
	}

	return ok(&GroupData{
		Group:   g.ToResponse(),
		PageObj: newPostPage(posts, page),
	}, page.Meta()), nil
}

// Profile shows the posts of one author
func (v *Views) Profile(ctx context.Context, req *Request, username string) (*Result, error) {
	author, err := v.authors.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return notFound("User not found"), nil
		}
		return nil, err
	}

	posts, page, err := v.posts.ListByAuthor(ctx, author.ID, req.Page)
	if err != nil {
		return nil, err
	}

	pageObj := newPostPage(posts, page)
	return ok(&ProfileData{
		Author:    author.ToResponse(),
		PageObj:   pageObj,
		PostList:  pageObj.Posts,
		PostCount: page.Total,
	}, page.Meta()), nil
}

// Detail shows a single post with its author's post count
func (v *Views) Detail(ctx context.Context, req *Request, id int64) (*Result, error) {
	post, err := v.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return notFound("Post not found"), nil
		}
		return nil, err
	}

	author, err := v.authors.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post author: %w", err)
	}

	count, err := v.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return ok(&DetailData{
		Post:      post.ToResponse(),
		Author:    author.ToResponse(),
		PostCount: count,
	}, nil), nil
}

// Create shows the empty post form and stores submitted posts
func (v *Views) Create(ctx context.Context, req *Request) (*Result, error) {
	if req.Viewer == nil {
		return v.loginRedirect(req.Path), nil
	}

	if req.Method != http.MethodPost {
		return v.form(ctx, PostForm{}, nil, 0)
	}

	form, err := v.ValidateForm(ctx, req.Form)
	if err != nil {
		return nil, err
	}
	if !form.Valid() {
		return v.form(ctx, submitted(req.Form), form.Errors, 0)
	}

	if _, err := v.posts.Create(ctx, form.Text, form.GroupID, req.Viewer.ID); err != nil {
		return nil, err
	}

	return redirect(ProfilePath(req.Viewer.Username)), nil
}

// Edit shows the prefilled form to the post's author and stores their
// changes. Anyone else is sent back to the post.
func (v *Views) Edit(ctx context.Context, req *Request, id int64) (*Result, error) {
	if req.Viewer == nil {
		return v.loginRedirect(req.Path), nil
	}

	post, err := v.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return notFound("Post not found"), nil
		}
		return nil, err
	}

	if !req.Viewer.Is(post.AuthorID) {
		return redirect(DetailPath(post.ID)), nil
	}

	if req.Method != http.MethodPost {
		initial := PostForm{Text: post.Text}
		if post.GroupID != nil {
			initial.Group = strconv.FormatInt(*post.GroupID, 10)
		}
		return v.form(ctx, initial, nil, post.ID)
	}

	form, err := v.ValidateForm(ctx, req.Form)
	if err != nil {
		return nil, err
	}
	if !form.Valid() {
		return v.form(ctx, submitted(req.Form), form.Errors, post.ID)
	}

	if _, err := v.posts.Update(ctx, post.ID, form.Text, form.GroupID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return notFound("Post not found"), nil
		}
		return nil, err
	}

	return redirect(DetailPath(post.ID)), nil
}

// ValidateForm checks a submitted post form. The text must not be blank and
// the group, when given, must be the id of an existing group.
func (v *Views) ValidateForm(ctx context.Context, values url.Values) (*FormResult, error) {
	form := submitted(values)
	result := &FormResult{Text: strings.TrimSpace(form.Text), Errors: validation.Errors{}}

	if errs := validation.Struct(&form); errs != nil {
		for field, messages := range errs {
			for _, m := range messages {
				result.Errors.Add(field, m)
			}
		}
	}

	raw := strings.TrimSpace(form.Group)
	if raw == "" {
		return result, nil
	}

	groupID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		result.Errors.Add("group", invalidChoice)
		return result, nil
	}

	exists, err := v.groups.Exists(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		result.Errors.Add("group", invalidChoice)
		return result, nil
	}

	result.GroupID = &groupID
	return result, nil
}

func (v *Views) form(ctx context.Context, values PostForm, errs validation.Errors, postID int64) (*Result, error) {
	groups, err := v.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]*group.GroupResponse, 0, len(groups))
	for _, g := range groups {
		choices = append(choices, g.ToResponse())
	}

	return ok(&FormData{
		Form:   values,
		Errors: errs,
		Groups: choices,
		IsEdit: postID != 0,
		PostID: postID,
	}, nil), nil
}

func (v *Views) loginRedirect(path string) *Result {
	// slashes stay readable in next
	next := strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
	return redirect(v.loginURL + "?next=" + next)
}

func submitted(values url.Values) PostForm {
	return PostForm{Text: values.Get("text"), Group: values.Get("group")}
}

// ProfilePath returns the profile page of username
func ProfilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// DetailPath returns the detail page of a post
func DetailPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}
