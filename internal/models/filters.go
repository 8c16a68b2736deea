package models

// ResultFilter represents query parameters for listing period analyses
type ResultFilter struct {
	JobID     string `form:"job_id"`
	Filter    string `form:"filter"`     // all, jumps, normal
	SortBy    string `form:"sort_by"`    // output column name
	SortOrder string `form:"sort_order"` // asc, desc
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// Result filter values
const (
	FilterAll    = "all"
	FilterJumps  = "jumps"
	FilterNormal = "normal"
)

// Pagination describes one page of a result listing
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// ResultPage is a paginated response of period analyses
type ResultPage struct {
	Results    []PeriodAnalysis `json:"results"`
	Pagination Pagination       `json:"pagination"`
}

// NewPagination computes page metadata
func NewPagination(page, perPage, total int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
