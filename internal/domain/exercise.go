package domain

import "time"

// Exercise is one recorded exercise event belonging to a user. Entries are
// immutable once written.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int
	Date        time.Time
	CreatedAt   time.Time
}

// LogFilter constrains an exercise log query. Nil bounds mean unbounded;
// Limit <= 0 means no truncation.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
