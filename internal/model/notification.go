package model

import (
	"time"
)

// WorkspaceConnection is a durable record of a third-party platform linkage.
// For email delivery the workspace id is the email domain-less marker "email"
// and no access token is stored.
type WorkspaceConnection struct {
	UUID             string     `json:"uuid" db:"uuid"`
	OrganizationUUID string     `json:"organization_uuid" db:"organization_uuid"`
	Platform         string     `json:"platform" db:"platform"`
	WorkspaceID      string     `json:"workspace_id" db:"workspace_id"`
	AccessToken      *string    `json:"-" db:"access_token"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	DisconnectedAt   *time.Time `json:"disconnected_at" db:"disconnected_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the WorkspaceConnection model
func (WorkspaceConnection) TableName() string {
	return "workspace_connections"
}

// NotificationSchedule is a named delivery cadence. Realtime delivery has no
// schedule row; channels reference it through a nullable column.
type NotificationSchedule struct {
	UUID             string    `json:"uuid" db:"uuid"`
	OrganizationUUID string    `json:"organization_uuid" db:"organization_uuid"`
	Name             string    `json:"name" db:"name"`
	ScheduleType     string    `json:"schedule_type" db:"schedule_type"`
	Timezone         string    `json:"timezone" db:"timezone"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the NotificationSchedule model
func (NotificationSchedule) TableName() string {
	return "notification_schedules"
}

// NotificationChannel is a configured delivery target binding an organization,
// an optional workspace connection, a recipient and a feed set.
type NotificationChannel struct {
	UUID             string    `json:"uuid" db:"uuid"`
	OrganizationUUID string    `json:"organization_uuid" db:"organization_uuid"`
	ConnectionUUID   *string   `json:"connection_uuid" db:"connection_uuid"`
	ScheduleUUID     *string   `json:"schedule_uuid" db:"schedule_uuid"`
	Platform         string    `json:"platform" db:"platform"`
	Recipient        string    `json:"recipient" db:"recipient"`
	FeedIDs          []string  `json:"feed_ids" db:"feed_ids"`
	CategoryIDs      []string  `json:"category_ids" db:"category_ids"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the NotificationChannel model
func (NotificationChannel) TableName() string {
	return "notification_channels"
}
