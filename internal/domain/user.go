// Package domain defines the business logic for the exercise tracker.
package domain

import "time"

// User is a tracked account. Users are created once and never updated or
// deleted by this service.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}
