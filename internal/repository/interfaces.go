package repository

import (
	"osiri-api/internal/model"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	CreateOrganization(org *model.Organization) error
	GetOrganizationByUUID(uuid string) (*model.Organization, error)
	UpdateOrganization(org *model.Organization) error
	DeleteOrganization(uuid string) error
	CreateMember(member *model.OrganizationMember) error
	GetMemberByUserID(userID string) (*model.OrganizationMember, error)
	CreateLimits(limits *model.SubscriptionLimits) error
	GetLimitsByOrganizationUUID(orgUUID string) (*model.SubscriptionLimits, error)
}

// NotificationRepository defines the interface for delivery configuration data access
type NotificationRepository interface {
	GetConnectionsByOrganizationUUID(orgUUID string) ([]*model.WorkspaceConnection, error)
	GetChannelsByOrganizationUUID(orgUUID string) ([]*model.NotificationChannel, error)
	GetScheduleByUUID(uuid string) (*model.NotificationSchedule, error)
}

// FeedRepository defines the interface for feed catalog access
type FeedRepository interface {
	ListFeeds(category string, limit, offset int) ([]*model.Feed, error)
	GetFeedByUUID(uuid string) (*model.Feed, error)
	UpsertFeed(feed *model.Feed) error
}

// ProvisioningRepository commits an entire onboarding draft in one transaction.
type ProvisioningRepository interface {
	ProvisionOrganization(p *ProvisioningPlan) (*ProvisioningResult, error)
}
