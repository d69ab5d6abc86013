package properties

import (
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// ListFilters describe the browse endpoint's filter knobs.
type ListFilters struct {
	Query    string `json:"q,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
}

// ListInput captures the inputs needed to paginate/filter listings.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of listings plus the cursor for the next page.
type ListResult struct {
	Properties []PropertyDTO `json:"properties"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
