package domain

import "time"

// CitizenReport lives in two places that must stay consistent: the durable
// local log and the session-scoped engine table rebuilt from it at startup.
type CitizenReport struct {
	ID          string    `json:"id" db:"id"`
	SubjectName string    `json:"subject_name" db:"subject_name"`
	Institution string    `json:"institution" db:"institution"`
	Reason      string    `json:"reason" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UserID      string    `json:"user_id" db:"user_id"`
	UserEmail   string    `json:"user_email" db:"user_email"`
	Upvotes     int64     `json:"upvotes" db:"upvotes"`
}

// CommunityStats partitions the current report collection by upvote count.
type CommunityStats struct {
	Validated int `json:"validated"`
	Pending   int `json:"pending"`
}

// User is the identity provider's view of the caller.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
