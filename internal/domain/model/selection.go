package model

import (
	"time"
)

// Selection is an edge in the user-product many-to-many relation. A given
// (user, product) pair appears at most once; several users may select the
// same product simultaneously.
type Selection struct {
	UserID    string    `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
