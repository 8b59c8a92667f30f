package analyses

// Page represents a paginated response with data and metadata
type Page struct {
	Results    []*Record  `json:"results"`
	Total      int        `json:"total"`
	HasMore    bool       `json:"hasMore"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// NewPage assembles the listing envelope. total is the post-filter,
// pre-slice count.
func NewPage(results []*Record, total, offset, limit int) *Page {
	if results == nil {
		results = []*Record{}
	}
	currentPage := 1
	totalPages := 0
	if limit > 0 {
		currentPage = offset/limit + 1
		totalPages = (total + limit - 1) / limit
	}
	return &Page{
		Results: results,
		Total:   total,
		HasMore: offset+limit < total,
		Pagination: Pagination{
			Limit:       limit,
			Offset:      offset,
			CurrentPage: currentPage,
			TotalPages:  totalPages,
		},
	}
}
