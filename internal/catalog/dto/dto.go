package dto

type ItemFilters struct {
	Type        string
	SearchQuery string // name substring, case-insensitive
	Page        int
	PageSize    int
}
