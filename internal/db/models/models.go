package models

const (
	// DefaultLimit is the max number of rows retrieved from the DB per
	// listing API call
	DefaultLimit = 50
)

// StatusFilter represents how to filter records by status
type StatusFilter string

const (
	// StatusFilterEqual filters for records with matching status
	StatusFilterEqual StatusFilter = "equal"
	// StatusFilterNotEqual filters for records with non-matching status
	StatusFilterNotEqual StatusFilter = "not_equal"
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions struct {
	Limit          int             `json:"limit"`
	Offset         int             `json:"offset"`
	IncludeDeleted bool            `json:"include_deleted"`
	Status         *DatabaseStatus `json:"status,omitempty"`
	StatusFilter   StatusFilter    `json:"status_filter,omitempty"`
}
