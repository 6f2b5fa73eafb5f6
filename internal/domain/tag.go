package domain

import "time"

// Tag is a user-defined label that can be attached to notes.
// Tags belong to a tenant; identity within the tenant is determined by Slug,
// which is always lowercase and hyphenated. Name preserves the original
// casing supplied when the tag was created.
type Tag struct {
	ID        int64     `json:"tagId"`
	TenantID  int64     `json:"-"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}
