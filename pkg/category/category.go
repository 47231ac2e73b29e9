package category

// Category labels transactions and carries the display color used to
// annotate category totals on the dashboard.
type Category struct {
	ID    int
	Name  string
	Color string
}
