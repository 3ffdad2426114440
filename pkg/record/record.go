// Package record holds the lifecycle scaffolding shared by every persisted
// entity: creation and update timestamps set explicitly at construction and
// on each mutation, rather than inherited from a framework base class.
package record

import "time"

// Timestamps is embedded in every persisted model.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Init stamps both timestamps at construction time.
func (ts *Timestamps) Init(now time.Time) {
	ts.CreatedAt = now
	ts.UpdatedAt = now
}

// Touch advances the update timestamp. The creation timestamp never changes.
func (ts *Timestamps) Touch(now time.Time) {
	ts.UpdatedAt = now
}
