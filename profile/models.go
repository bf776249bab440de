package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the profiles row.
type Record struct {
	bun.BaseModel `bun:"table:profiles"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Email     string    `bun:"email"`
	Role      string    `bun:"role"`
	FullName  string    `bun:"full_name"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}
