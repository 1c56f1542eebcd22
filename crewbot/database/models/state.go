package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CrewState holds one serialized state document. The document is kept as
// text so member order inside it survives.
type CrewState struct {
	bun.BaseModel `bun:"table:crew_state,alias:cs"`

	ID        string    `bun:"id,pk"`
	Document  string    `bun:"document,type:text,notnull"`
	Version   int       `bun:"version,notnull,default:1"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
