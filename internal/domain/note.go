// Package domain contains the core data types for the note backend.
// This package has zero external dependencies and is imported by every other
// internal package (repo, feature, handler, hub).
package domain

import "time"

// Note is the top-level aggregate: a piece of rich text owned by one tenant.
// The slug is unique within the tenant and derived from the title unless the
// caller supplies one explicitly.
type Note struct {
	ID        int64     `json:"noteId"`
	TenantID  int64     `json:"-"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Slug      string    `json:"slug"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
