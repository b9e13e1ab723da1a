package activity

import "time"

// Well-known action types. Clients may record others.
const (
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionView   = "VIEW"
)

// RetentionDays is how long activities are kept by the cleanup job.
const RetentionDays = 90

type Activity struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ActionType  string    `json:"action_type" db:"action_type"`
	Description *string   `json:"description" db:"description"`
	IPAddress   *string   `json:"ip_address" db:"ip_address"`
	UserAgent   *string   `json:"user_agent" db:"user_agent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreateActivityRequest represents a new activity entry
type CreateActivityRequest struct {
	ActionType  string  `json:"action_type" validate:"required,max=50"`
	Description *string `json:"description,omitempty"`
	IPAddress   *string `json:"ip_address,omitempty" validate:"omitempty,max=45"`
	UserAgent   *string `json:"user_agent,omitempty" validate:"omitempty,max=255"`
}

// Stats is the per-day activity summary
type Stats struct {
	UserID            int64          `json:"user_id"`
	Date              time.Time      `json:"date"`
	TotalActivities   int            `json:"total_activities"`
	ActivityBreakdown map[string]int `json:"activity_breakdown"`
}

// Filter narrows an activity query. Zero fields are ignored.
type Filter struct {
	UserID     int64
	ActionType string
	Since      *time.Time
	Until      *time.Time
	Skip       int
	Limit      int
}
