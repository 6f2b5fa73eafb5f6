package domain

import "time"

// Tenant is the isolation boundary. Every note, tag, and user carries a
// tenant id, and no query may cross it.
type Tenant struct {
	ID        int64     `json:"tenantId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TenantContext identifies the caller for one request. It is built by the
// auth middleware after token verification and passed explicitly to every
// handler and store call — never stored in package-level state.
type TenantContext struct {
	TenantID int64
	UserID   int64
}
