package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"notblank"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
	}
}
