package model

import (
	"time"
)

// UsedCodeRecord marks an activation code as consumed. Its CodeHash is unique;
// the existence of a row is the only single-use guard.
type UsedCodeRecord struct {
	CodeHash  string
	SubjectID string
	UsedAt    time.Time
}
