package domain

// SearchQuery is the request handed to a news provider for one fetch window.
// StartDate and EndDate are both inclusive.
type SearchQuery struct {
	Query          string
	Language       string
	Country        string
	StartDate      Date
	EndDate        Date
	MaxResults     int
	ExcludeDomains []string
}
