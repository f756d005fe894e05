package dto

// DefaultPageSize is used when a list request does not set a limit.
const DefaultPageSize = 50

// MaxPageSize caps the limit of list requests.
const MaxPageSize = 200

// ListParams holds keyset pagination parameters.
type ListParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// PageLimit returns the effective page size.
func (p ListParams) PageLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageSize
	case p.Limit > MaxPageSize:
		return MaxPageSize
	}
	return p.Limit
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}
