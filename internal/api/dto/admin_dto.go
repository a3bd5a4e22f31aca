package dto

// AddUserRequest payload.
type AddUserRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// AddCategoryRequest payload.
type AddCategoryRequest struct {
	Label string `json:"label" validate:"required"`
}

// CategoriesResponse lists labels with their positional index.
type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// CategoryResponse is a single label.
type CategoryResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// NewCategoriesResponse indexes labels in order.
func NewCategoriesResponse(labels []string) CategoriesResponse {
	resp := CategoriesResponse{Categories: make([]CategoryResponse, 0, len(labels))}
	for i, label := range labels {
		resp.Categories = append(resp.Categories, CategoryResponse{Index: i, Label: label})
	}
	return resp
}
