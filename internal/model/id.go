package model

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a short random identifier: the first 8 hex characters of
// a v4 UUID. Short ids keep tokens and URLs compact; collisions within a
// single PIN's workspace are not a practical concern at this scale.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}
