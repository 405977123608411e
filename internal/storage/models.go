package storage

import (
	"database/sql"
	"time"
)

// Session describes one archived flight.
type Session struct {
	ID        int64
	StartTime time.Time
	Source    string  // Original flight log path or description
	Config    *string // Analysis parameters as JSON, when recorded
}

// sessionData is the raw database row behind Session.
type sessionData struct {
	StartTime time.Time
	Source    string
	Config    sql.NullString
}
