package dto

import (
	"time"
)

// Organization represents an organization as returned by the API.
type Organization struct {
	UUID               string     `json:"uuid"`
	Name               string     `json:"name"`
	Language           string     `json:"language"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndDate       *time.Time `json:"trial_end_date,omitempty"`
	WillCancel         bool       `json:"will_cancel"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SubscriptionLimits is the usage-cap row joined onto an organization.
type SubscriptionLimits struct {
	MaxChannels            int `json:"max_channels"`
	MaxFeedsPerChannel     int `json:"max_feeds_per_channel"`
	MaxNotificationsPerDay int `json:"max_notifications_per_day"`
	MinIntervalMinutes     int `json:"min_notification_interval_minutes"`
}

// OrganizationContext is the resolver result: the caller's organization joined
// with its subscription limits. Limits may be absent for rows created before
// limits were seeded, so the field is nullable and callers must check it.
type OrganizationContext struct {
	Organization Organization        `json:"organization"`
	Role         string              `json:"role"`
	Limits       *SubscriptionLimits `json:"limits,omitempty"`
}

// UpdateOrganizationRequest carries a partial organization patch. Nil fields
// are left untouched.
type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty"`
	Language *string `json:"language,omitempty"`
}

// CreateOrganizationRequest creates an organization outside the wizard flow.
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// SubscriptionStatusResponse is the dashboard's subscription posture: whether
// gated features are usable right now and which banner, if any, to show.
type SubscriptionStatusResponse struct {
	Valid  bool   `json:"valid"`
	Banner string `json:"banner,omitempty"`
}

// ScheduleInfo is the cadence attached to a delivery channel. Absent for
// realtime channels.
type ScheduleInfo struct {
	Name         string `json:"name"`
	ScheduleType string `json:"schedule_type"`
	Timezone     string `json:"timezone"`
}

// ChannelSummary is a delivery channel as shown on the dashboard, with its
// schedule joined in and connection state reduced to a boolean.
type ChannelSummary struct {
	UUID        string        `json:"uuid"`
	Platform    string        `json:"platform"`
	Recipient   string        `json:"recipient"`
	FeedIDs     []string      `json:"feed_ids"`
	CategoryIDs []string      `json:"category_ids"`
	IsActive    bool          `json:"is_active"`
	Connected   bool          `json:"connected"`
	Schedule    *ScheduleInfo `json:"schedule,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
