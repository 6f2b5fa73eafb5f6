package domain

// Event is an immutable record of a completed mutation. Handlers return
// events alongside their response; after the handler's transaction commits,
// the dispatcher hands them to the notification hub, which fans them out to
// every subscriber of the event's tenant.
//
// EventName is the stable, human-readable envelope type delivered to clients
// (e.g. "[Note] Saved"). EventPayload is the envelope body and must carry
// enough state for subscribers to render without a follow-up fetch.
type Event interface {
	EventName() string
	EventTenant() int64
	EventPayload() any
}

// NoteSaved is emitted after a note is created or updated.
// It carries the full committed note, tags included.
type NoteSaved struct {
	TenantID int64
	Note     Note
}

func (e NoteSaved) EventName() string  { return "[Note] Saved" }
func (e NoteSaved) EventTenant() int64 { return e.TenantID }
func (e NoteSaved) EventPayload() any {
	return struct {
		Note Note `json:"note"`
	}{Note: e.Note}
}

// NoteRemoved is emitted after a note is deleted. Only the id survives the
// deletion, so only the id is broadcast.
type NoteRemoved struct {
	TenantID int64
	NoteID   int64
}

func (e NoteRemoved) EventName() string  { return "[Note] Removed" }
func (e NoteRemoved) EventTenant() int64 { return e.TenantID }
func (e NoteRemoved) EventPayload() any {
	return struct {
		NoteID int64 `json:"noteId"`
	}{NoteID: e.NoteID}
}

// NoteTagAdded is emitted after a tag is linked to a note.
type NoteTagAdded struct {
	TenantID int64
	NoteID   int64
	TagID    int64
}

func (e NoteTagAdded) EventName() string  { return "[Note] Tag Added" }
func (e NoteTagAdded) EventTenant() int64 { return e.TenantID }
func (e NoteTagAdded) EventPayload() any {
	return struct {
		NoteID int64 `json:"noteId"`
		TagID  int64 `json:"tagId"`
	}{NoteID: e.NoteID, TagID: e.TagID}
}

// NoteTagRemoved is emitted after a tag is unlinked from a note.
type NoteTagRemoved struct {
	TenantID int64
	NoteID   int64
	TagID    int64
}

func (e NoteTagRemoved) EventName() string  { return "[Note] Tag Removed" }
func (e NoteTagRemoved) EventTenant() int64 { return e.TenantID }
func (e NoteTagRemoved) EventPayload() any {
	return struct {
		NoteID int64 `json:"noteId"`
		TagID  int64 `json:"tagId"`
	}{NoteID: e.NoteID, TagID: e.TagID}
}

// TagSaved is emitted after a tag is created or renamed.
type TagSaved struct {
	TenantID int64
	Tag      Tag
}

func (e TagSaved) EventName() string  { return "[Tag] Saved" }
func (e TagSaved) EventTenant() int64 { return e.TenantID }
func (e TagSaved) EventPayload() any {
	return struct {
		Tag Tag `json:"tag"`
	}{Tag: e.Tag}
}
