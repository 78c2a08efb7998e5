package domain

import (
	"time"

	"github.com/google/uuid"
)

type FAQ struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreatedOrder selects the direction of created_at ordering for listings.
type CreatedOrder int

const (
	NewestFirst CreatedOrder = iota
	OldestFirst
)
