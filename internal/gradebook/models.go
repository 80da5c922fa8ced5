package gradebook

import (
	"errors"
)

// Book is a learner's named set of courses.
type Book struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Quota     *int   `json:"target_quota,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

var (
	ErrNotFound    = errors.New("gradebook not found")
	ErrNameTaken   = errors.New("gradebook name already in use")
	ErrInvalidName = errors.New("gradebook name required")
	ErrNoQuota     = errors.New("target quota not set")
	ErrNoOptions   = errors.New("no optimizer results; run optimize first")
)
