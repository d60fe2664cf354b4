package post

import (
	"fmt"
	"time"
)

// Post is a text entry written by a user, optionally filed under a group
type Post struct {
	ID             int64     `json:"id"`
	Text           string    `json:"text"`
	PubDate        time.Time `json:"pub_date"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	GroupID        *int64    `json:"group_id,omitempty"`
	GroupSlug      *string   `json:"group_slug,omitempty"`
	GroupTitle     *string   `json:"group_title,omitempty"`
}

// String renders the first 15 characters of the text with the publication
// date, the author and the group title ("None" without a group)
func (p *Post) String() string {
	text := p.Text
	if runes := []rune(text); len(runes) > 15 {
		text = string(runes[:15])
	}

	groupTitle := "None"
	if p.GroupTitle != nil {
		groupTitle = *p.GroupTitle
	}

	return fmt.Sprintf("%s, %s, %s, %s", text, p.PubDate.Format("2006-01-02"), p.AuthorUsername, groupTitle)
}
