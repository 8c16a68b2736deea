package models

// DatasetStats describes an uploaded carrier dataset
type DatasetStats struct {
	TotalRecords        int            `json:"total_records"`
	RecordsWithLocation int            `json:"records_with_location"`
	UniqueStates        int            `json:"unique_states"`
	DateRange           DateRange      `json:"date_range"`
	CellTypes           map[string]int `json:"cell_types"`
	States              map[string]int `json:"states"`
	DroppedRows         int            `json:"dropped_rows"`
}

// UploadResult is returned after a dataset upload replaces the current one
type UploadResult struct {
	Message   string    `json:"message"`
	Filename  string    `json:"filename"`
	Records   int       `json:"records"`
	Columns   []string  `json:"columns"`
	DateRange DateRange `json:"date_range"`
}
