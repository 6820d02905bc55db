package model

import "time"

// Setting is one household-level key/value row (rotation reset day, default
// daily screen minutes, display preferences).
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
