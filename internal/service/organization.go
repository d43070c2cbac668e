package service

import (
	"time"

	"github.com/google/uuid"
	"osiri-api/config"
	"osiri-api/internal/constants"
	"osiri-api/internal/dto"
	"osiri-api/internal/model"
	"osiri-api/internal/repository"
)

// OrganizationService resolves the caller's organization and subscription
// posture and exposes the imperative actions that mutate it.
type OrganizationService struct {
	orgRepo   repository.OrganizationRepository
	notifRepo repository.NotificationRepository
	plans     config.Plans
	events    EventPublisher
}

func NewOrganizationService(orgRepo repository.OrganizationRepository, notifRepo repository.NotificationRepository,
	plans config.Plans, events EventPublisher) *OrganizationService {
	return &OrganizationService{
		orgRepo:   orgRepo,
		notifRepo: notifRepo,
		plans:     plans,
		events:    events,
	}
}

// ResolveForUser looks up the caller's membership, then the referenced
// organization joined with its subscription limits. Absence of a membership
// means "no organization yet" and returns (nil, nil) so the caller routes to
// organization creation, not to an error state.
func (s *OrganizationService) ResolveForUser(userID string) (*dto.OrganizationContext, error) {
	member, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	org, err := s.orgRepo.GetOrganizationByUUID(member.OrganizationUUID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		// Membership pointing at a missing organization is a data error.
		return nil, constants.ErrOrganizationNotFound
	}

	limits, err := s.orgRepo.GetLimitsByOrganizationUUID(org.UUID)
	if err != nil {
		return nil, err
	}

	ctx := &dto.OrganizationContext{
		Organization: s.modelToDTO(org),
		Role:         member.Role,
	}
	if limits != nil {
		ctx.Limits = &dto.SubscriptionLimits{
			MaxChannels:            limits.MaxChannels,
			MaxFeedsPerChannel:     limits.MaxFeedsPerChannel,
			MaxNotificationsPerDay: limits.MaxNotificationsPerDay,
			MinIntervalMinutes:     limits.MinIntervalMinutes,
		}
	}
	return ctx, nil
}

// CreateOrganization creates an organization outside the onboarding wizard,
// seeds the starter subscription limits and re-resolves the joined state.
func (s *OrganizationService) CreateOrganization(userID, name string) (*dto.OrganizationContext, error) {
	if userID == "" {
		return nil, constants.ErrUnauthenticated
	}

	existing, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrAlreadyProvisioned
	}

	trialEnd := time.Now().AddDate(0, 0, s.plans.TrialDays)
	org := &model.Organization{
		UUID:               uuid.New().String(),
		Name:               name,
		Language:           "en",
		SubscriptionStatus: constants.SubscriptionTrialing,
		TrialEndDate:       &trialEnd,
	}
	if err := s.orgRepo.CreateOrganization(org); err != nil {
		return nil, err
	}

	member := &model.OrganizationMember{
		UUID:             uuid.New().String(),
		OrganizationUUID: org.UUID,
		UserID:           userID,
		Role:             constants.RoleOwner,
	}
	if err := s.orgRepo.CreateMember(member); err != nil {
		return nil, err
	}

	limits := &model.SubscriptionLimits{
		OrganizationUUID:       org.UUID,
		MaxChannels:            s.plans.StarterChannels,
		MaxFeedsPerChannel:     s.plans.StarterFeedsPerChannel,
		MaxNotificationsPerDay: s.plans.StarterNotificationsPerDay,
		MinIntervalMinutes:     s.plans.StarterMinIntervalMinutes,
	}
	if err := s.orgRepo.CreateLimits(limits); err != nil {
		return nil, err
	}

	return s.ResolveForUser(userID)
}

// UpdateOrganization patches the organization row, then re-reads the joined
// state. Callers must not assume the patch alone reflects joined data.
//
// The caller can only patch the organization they are a member of. A missing
// membership and a foreign organization UUID answer the same way so the
// endpoint does not leak which organizations exist.
func (s *OrganizationService) UpdateOrganization(userID, orgUUID string, patch *dto.UpdateOrganizationRequest) (*dto.OrganizationContext, error) {
	member, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.OrganizationUUID != orgUUID {
		return nil, constants.ErrOrganizationNotFound
	}

	org, err := s.orgRepo.GetOrganizationByUUID(orgUUID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}

	if patch.Name != nil {
		org.Name = *patch.Name
	}
	if patch.Language != nil {
		org.Language = *patch.Language
	}
	if err := s.orgRepo.UpdateOrganization(org); err != nil {
		return nil, err
	}

	s.events.Publish(userID, "subscription.updated", map[string]string{
		"organization_uuid": org.UUID,
	})

	return s.ResolveForUser(userID)
}

// DeleteOrganization removes the caller's organization. Owner-only; the
// schema cascades the delete to members, connections, schedules, channels and
// limits. Membership is checked the same way as UpdateOrganization so the
// endpoint does not leak which organizations exist.
func (s *OrganizationService) DeleteOrganization(userID, orgUUID string) error {
	member, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationUUID != orgUUID {
		return constants.ErrOrganizationNotFound
	}
	if member.Role != constants.RoleOwner {
		return constants.ErrNotOrganizationOwner
	}

	if err := s.orgRepo.DeleteOrganization(orgUUID); err != nil {
		return err
	}

	s.events.Publish(userID, "organization.deleted", map[string]string{
		"organization_uuid": orgUUID,
	})
	return nil
}

// ListChannels returns the caller's delivery channels with their schedules
// joined in. A caller without an organization gets an empty list, mirroring
// the resolver's no-membership behavior.
func (s *OrganizationService) ListChannels(userID string) ([]dto.ChannelSummary, error) {
	member, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return []dto.ChannelSummary{}, nil
	}

	channels, err := s.notifRepo.GetChannelsByOrganizationUUID(member.OrganizationUUID)
	if err != nil {
		return nil, err
	}
	connections, err := s.notifRepo.GetConnectionsByOrganizationUUID(member.OrganizationUUID)
	if err != nil {
		return nil, err
	}
	connected := make(map[string]bool, len(connections))
	for _, conn := range connections {
		connected[conn.UUID] = conn.IsActive && conn.DisconnectedAt == nil
	}

	summaries := make([]dto.ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		summary := dto.ChannelSummary{
			UUID:        ch.UUID,
			Platform:    ch.Platform,
			Recipient:   ch.Recipient,
			FeedIDs:     ch.FeedIDs,
			CategoryIDs: ch.CategoryIDs,
			IsActive:    ch.IsActive,
			CreatedAt:   ch.CreatedAt,
		}
		if ch.ConnectionUUID != nil {
			summary.Connected = connected[*ch.ConnectionUUID]
		} else {
			// Email channels have no connection to lose.
			summary.Connected = true
		}
		if ch.ScheduleUUID != nil {
			schedule, err := s.notifRepo.GetScheduleByUUID(*ch.ScheduleUUID)
			if err != nil {
				return nil, err
			}
			if schedule != nil {
				summary.Schedule = &dto.ScheduleInfo{
					Name:         schedule.Name,
					ScheduleType: schedule.ScheduleType,
					Timezone:     schedule.Timezone,
				}
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *OrganizationService) modelToDTO(org *model.Organization) dto.Organization {
	return dto.Organization{
		UUID:               org.UUID,
		Name:               org.Name,
		Language:           org.Language,
		SubscriptionStatus: org.SubscriptionStatus,
		TrialEndDate:       org.TrialEndDate,
		WillCancel:         org.WillCancel,
		CreatedAt:          org.CreatedAt,
		UpdatedAt:          org.UpdatedAt,
	}
}
