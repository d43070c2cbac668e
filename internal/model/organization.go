package model

import (
	"time"
)

// Organization represents a billing/tenant unit owning memberships,
// connections and channels.
type Organization struct {
	UUID               string     `json:"uuid" db:"uuid"`
	Name               string     `json:"name" db:"name"`
	Language           string     `json:"language" db:"language"`
	SubscriptionStatus string     `json:"subscription_status" db:"subscription_status"`
	TrialEndDate       *time.Time `json:"trial_end_date" db:"trial_end_date"`
	WillCancel         bool       `json:"will_cancel" db:"will_cancel"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	UUID             string    `json:"uuid" db:"uuid"`
	OrganizationUUID string    `json:"organization_uuid" db:"organization_uuid"`
	UserID           string    `json:"user_id" db:"user_id"`
	Role             string    `json:"role" db:"role"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the OrganizationMember model
func (OrganizationMember) TableName() string {
	return "organization_members"
}

// SubscriptionLimits holds the usage caps attached to an organization's plan.
type SubscriptionLimits struct {
	OrganizationUUID       string    `json:"organization_uuid" db:"organization_uuid"`
	MaxChannels            int       `json:"max_channels" db:"max_channels"`
	MaxFeedsPerChannel     int       `json:"max_feeds_per_channel" db:"max_feeds_per_channel"`
	MaxNotificationsPerDay int       `json:"max_notifications_per_day" db:"max_notifications_per_day"`
	MinIntervalMinutes     int       `json:"min_notification_interval_minutes" db:"min_notification_interval_minutes"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the SubscriptionLimits model
func (SubscriptionLimits) TableName() string {
	return "subscription_limits"
}
