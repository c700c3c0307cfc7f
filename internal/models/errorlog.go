package models

import "time"

// ErrorLog is an append-only diagnostic record written after a failed
// request. Writing it is always best-effort.
type ErrorLog struct {
	ID        int64     `db:"id" json:"id"`
	Method    string    `db:"method" json:"method"`
	Route     string    `db:"route" json:"route"`
	Status    int       `db:"status" json:"status"`
	Message   string    `db:"message" json:"message"`
	Stack     string    `db:"stack" json:"stack,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
