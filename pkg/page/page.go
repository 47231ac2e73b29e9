package page

// Page groups transactions, e.g. one page per project or trip.
type Page struct {
	ID   int
	Name string
}
