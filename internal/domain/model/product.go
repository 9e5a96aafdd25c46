package model

import (
	"time"
)

// Sortable product fields accepted by the catalog listing. Anything else
// falls back to SortByName.
const (
	SortByName        = "name"
	SortByDescription = "description"
	SortByPrice       = "price"
	SortByStock       = "stock"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	// Price is a decimal string ("499.99"): money never passes through
	// binary floating point, and JSON clients receive it exactly as the
	// NUMERIC column stores it.
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
