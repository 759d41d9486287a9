package request

// ByIDRequest is a common struct for endpoints that require a numeric ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// ListParams holds the pagination parameters shared by list endpoints.
type ListParams struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults for unset pagination fields.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
}
