package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in admin_activity_logs.
type LogEntry struct {
	bun.BaseModel `bun:"table:admin_activity_logs"`

	ID          uuid.UUID `bun:",pk,type:uuid"`
	AdminID     uuid.UUID `bun:"admin_id,type:uuid,nullzero"`
	Kind        string    `bun:"activity_type"`
	Description string    `bun:"description"`
	IP          string    `bun:"ip_address"`
	UserAgent   string    `bun:"user_agent"`
	CreatedAt   time.Time `bun:"created_at"`
}
