package category

import "time"

// Category groups products for storefront navigation (fabrics, threads,
// needles, patterns).
type Category struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
