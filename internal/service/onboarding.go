/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"osiri-api/config"
	"osiri-api/internal/constants"
	"osiri-api/internal/dto"
	"osiri-api/internal/platform"
	"osiri-api/internal/repository"
	"osiri-api/internal/utils"
)

// EventPublisher pushes events to connected dashboard clients. Implemented by
// the websocket hub; a no-op fake in tests.
type EventPublisher interface {
	Publish(userID string, event string, payload interface{})
}

// draft is the transient wizard state for one user. It lives only in memory
// for the duration of the wizard and is discarded after a successful commit.
type draft struct {
	step               int
	organizationName   string
	language           string
	selectedFeedIDs    []string
	selectedCategories []string
	platform           string
	pending            *platform.Connection
	scheduleType       string
	inFlight           bool
}

// OnboardingService owns the per-user onboarding drafts and the provisioning
// commit. Drafts are keyed by user id with last-write-wins semantics;
// concurrent edits from multiple tabs are not reconciled.
type OnboardingService struct {
	mu     sync.Mutex
	drafts map[string]*draft

	factory  *platform.Factory
	provRepo repository.ProvisioningRepository
	orgRepo  repository.OrganizationRepository
	plans    config.Plans
	events   EventPublisher
}

// NewOnboardingService creates a new onboarding service. The service holds no
// global state; tests instantiate a fresh one per case.
func NewOnboardingService(factory *platform.Factory, provRepo repository.ProvisioningRepository,
	orgRepo repository.OrganizationRepository, plans config.Plans, events EventPublisher) *OnboardingService {
	return &OnboardingService{
		drafts:   make(map[string]*draft),
		factory:  factory,
		provRepo: provRepo,
		orgRepo:  orgRepo,
		plans:    plans,
		events:   events,
	}
}

// newDraft starts a wizard at interest selection with the mandatory default
// feed already selected.
func (s *OnboardingService) newDraft() *draft {
	return &draft{
		step:            constants.StepInterestSelection,
		language:        "en",
		selectedFeedIDs: []string{s.plans.DefaultFeedID},
	}
}

func (s *OnboardingService) draftFor(userID string) *draft {
	d, ok := s.drafts[userID]
	if !ok {
		d = s.newDraft()
		s.drafts[userID] = d
	}
	return d
}

// Draft returns the current wizard state for the user, creating a fresh draft
// on first access.
func (s *OnboardingService) Draft(userID string) dto.OnboardingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toDTO(s.draftFor(userID))
}

// Reset discards the user's draft; the next access starts over.
func (s *OnboardingService) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

// SetOrganizationName updates the draft organization name.
func (s *OnboardingService) SetOrganizationName(userID, name string) dto.OnboardingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	d.organizationName = name
	return s.toDTO(d)
}

// SetCategories replaces the selected category set.
func (s *OnboardingService) SetCategories(userID string, categories []string) dto.OnboardingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	d.selectedCategories = slices.Clone(categories)
	return s.toDTO(d)
}

// ToggleFeed flips a feed's membership in the selection.
//
// The default feed is always selected and toggling it is rejected. Removing
// any other selected feed is always allowed. Adding is allowed only below the
// plan cap; at the cap the toggle is rejected with ErrSelectionLimitReached so
// the client can inform the user. When a toggle brings the selection to the
// cap, the wizard advances to platform setup and the returned flag is true.
func (s *OnboardingService) ToggleFeed(userID, feedID string) (dto.OnboardingDraft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)

	if feedID == s.plans.DefaultFeedID {
		return s.toDTO(d), false, constants.ErrDefaultFeedLocked
	}

	if i := slices.Index(d.selectedFeedIDs, feedID); i >= 0 {
		d.selectedFeedIDs = slices.Delete(d.selectedFeedIDs, i, i+1)
		return s.toDTO(d), false, nil
	}

	if len(d.selectedFeedIDs) >= s.plans.FreeFeedCap {
		return s.toDTO(d), false, constants.ErrSelectionLimitReached
	}

	d.selectedFeedIDs = append(d.selectedFeedIDs, feedID)
	advanced := false
	if len(d.selectedFeedIDs) == s.plans.FreeFeedCap && d.step == constants.StepInterestSelection {
		d.step = constants.StepPlatformSetup
		advanced = true
	}
	return s.toDTO(d), advanced, nil
}

// UpdateFeeds applies an updater function over the current selection, then
// re-establishes the invariants: the default feed is force-included and the
// cap is enforced. The updater form exists so the default feed cannot be
// raced out by a concurrent replacement.
func (s *OnboardingService) UpdateFeeds(userID string, update func([]string) []string) (dto.OnboardingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)

	next := update(slices.Clone(d.selectedFeedIDs))
	if !slices.Contains(next, s.plans.DefaultFeedID) {
		next = append([]string{s.plans.DefaultFeedID}, next...)
	}
	if len(next) > s.plans.FreeFeedCap {
		return s.toDTO(d), constants.ErrSelectionLimitReached
	}

	d.selectedFeedIDs = next
	return s.toDTO(d), nil
}

// ReplaceFeeds replaces the selection wholesale, subject to the same
// invariants as UpdateFeeds.
func (s *OnboardingService) ReplaceFeeds(userID string, feedIDs []string) (dto.OnboardingDraft, error) {
	return s.UpdateFeeds(userID, func([]string) []string {
		return slices.Clone(feedIDs)
	})
}

// SetPlatform picks the delivery platform. The last platform chosen before
// submit wins; switching clears any pending connection from the previous
// choice. For chat platforms the provider authorize URL is returned so the
// client can redirect the browser.
func (s *OnboardingService) SetPlatform(userID, platformName, language string) (dto.SetPlatformResponse, error) {
	conn, err := s.factory.Connector(platformName)
	if err != nil {
		return dto.SetPlatformResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)

	if language != "" {
		d.language = language
	}
	if d.platform != platformName {
		d.pending = nil
		d.scheduleType = ""
	}
	d.platform = platformName

	return dto.SetPlatformResponse{
		Draft:        s.toDTO(d),
		AuthorizeURL: conn.AuthorizeURL(platform.AuthorizeParams{Language: d.language, UserID: userID}),
	}, nil
}

// SetEmail collects the email recipient and cadence inline. It implies the
// email platform; no provider round-trip happens until the final commit.
func (s *OnboardingService) SetEmail(userID, email, scheduleType string) (dto.OnboardingDraft, error) {
	if scheduleType == "" {
		scheduleType = constants.ScheduleRealtime
	}
	if !constants.ValidScheduleType(scheduleType) {
		return dto.OnboardingDraft{}, constants.ErrInvalidScheduleType
	}

	conn, err := s.factory.Connector(constants.PlatformEmail)
	if err != nil {
		return dto.OnboardingDraft{}, err
	}
	pending := platform.Connection{Email: email}
	if err := conn.ValidatePending(pending); err != nil {
		return dto.OnboardingDraft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	d.platform = constants.PlatformEmail
	d.pending = &pending
	d.scheduleType = scheduleType
	return s.toDTO(d), nil
}

// SetScheduleType updates the cadence on the pending connection.
func (s *OnboardingService) SetScheduleType(userID, scheduleType string) (dto.OnboardingDraft, error) {
	if !constants.ValidScheduleType(scheduleType) {
		return dto.OnboardingDraft{}, constants.ErrInvalidScheduleType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	if d.pending == nil {
		return s.toDTO(d), constants.ErrConnectionIncomplete
	}
	d.scheduleType = scheduleType
	return s.toDTO(d), nil
}

// Back returns from platform setup to interest selection.
func (s *OnboardingService) Back(userID string) dto.OnboardingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	if d.step == constants.StepPlatformSetup {
		d.step = constants.StepInterestSelection
	}
	return s.toDTO(d)
}

// HandleOAuthCallback resumes the wizard after the provider redirected back
// with an authorization code. Choosing a platform first is required; a
// callback without one fails rather than silently doing nothing. On exchange
// failure the draft is left unchanged so the user can retry.
func (s *OnboardingService) HandleOAuthCallback(ctx context.Context, userID, code string) (dto.OnboardingDraft, error) {
	s.mu.Lock()
	d := s.draftFor(userID)
	platformName := d.platform
	s.mu.Unlock()

	if platformName == "" {
		return s.Draft(userID), constants.ErrNoPlatformSelected
	}

	conn, err := s.factory.Connector(platformName)
	if err != nil {
		return s.Draft(userID), err
	}

	exchanged, err := conn.ExchangeCallback(ctx, code)
	if err != nil {
		return s.Draft(userID), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-read: the platform may have changed while the exchange was in
	// flight; the last platform chosen wins.
	d = s.draftFor(userID)
	d.pending = exchanged
	if d.scheduleType == "" {
		d.scheduleType = constants.ScheduleRealtime
	}
	return s.toDTO(d), nil
}

// Complete commits the draft: one organization, one owner membership, the
// workspace connection, the optional schedule and the notification channel
// are created in a single transaction, then the draft is discarded.
func (s *OnboardingService) Complete(ctx context.Context, userID, userEmail, timezone string) (*dto.CompleteResponse, error) {
	if userID == "" {
		return nil, constants.ErrUnauthenticated
	}

	member, err := s.orgRepo.GetMemberByUserID(userID)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return nil, constants.ErrAlreadyProvisioned
	}

	plan, err := s.buildPlan(userID, userEmail, timezone)
	if err != nil {
		return nil, err
	}

	defer s.clearInFlight(userID)

	result, err := s.provRepo.ProvisionOrganization(plan)
	if err != nil {
		// The transaction rolled back; the draft is kept so the user can
		// retry without re-entering prior steps.
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, userID)
	s.mu.Unlock()

	utils.LogInfo("provisioned organization " + result.OrganizationUUID + " for user " + userID)
	s.events.Publish(userID, "organization.provisioned", map[string]string{
		"organization_uuid": result.OrganizationUUID,
	})

	return &dto.CompleteResponse{
		OrganizationUUID: result.OrganizationUUID,
		ConnectionUUID:   result.ConnectionUUID,
		ScheduleUUID:     result.ScheduleUUID,
		ChannelUUID:      result.ChannelUUID,
	}, nil
}

// buildPlan validates the draft and freezes it into a provisioning plan,
// marking the draft in flight so a duplicate submission is rejected while the
// commit runs.
func (s *OnboardingService) buildPlan(userID, userEmail, timezone string) (*repository.ProvisioningPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)

	if d.inFlight {
		return nil, constants.ErrProvisionInProgress
	}

	if d.platform == "" {
		return nil, constants.ErrNoPlatformSelected
	}
	conn, err := s.factory.Connector(d.platform)
	if err != nil {
		return nil, err
	}
	if d.pending == nil {
		if d.platform == constants.PlatformEmail {
			return nil, constants.ErrEmailRequired
		}
		return nil, constants.ErrConnectionIncomplete
	}
	if err := conn.ValidatePending(*d.pending); err != nil {
		return nil, err
	}

	scheduleType := d.scheduleType
	if scheduleType == "" {
		scheduleType = constants.ScheduleRealtime
	}
	if scheduleType != constants.ScheduleRealtime {
		if timezone == "" {
			timezone = "UTC"
		}
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, constants.ErrInvalidTimezone
		}
	}

	name := d.organizationName
	if name == "" {
		name = utils.DefaultOrganizationName(userEmail)
	}

	workspaceID := d.pending.WorkspaceID
	if d.platform == constants.PlatformEmail {
		workspaceID = constants.PlatformEmail
	}
	var accessToken *string
	if d.pending.AccessToken != "" {
		token := d.pending.AccessToken
		accessToken = &token
	}

	trialEnd := time.Now().AddDate(0, 0, s.plans.TrialDays)

	d.inFlight = true

	return &repository.ProvisioningPlan{
		UserID:           userID,
		OrganizationName: name,
		Language:         d.language,
		TrialEndDate:     &trialEnd,
		Platform:         d.platform,
		WorkspaceID:      workspaceID,
		AccessToken:      accessToken,
		Recipient:        conn.DescribeRecipient(*d.pending),
		ScheduleType:     scheduleType,
		Timezone:         timezone,
		FeedIDs:          slices.Clone(d.selectedFeedIDs),
		CategoryIDs:      slices.Clone(d.selectedCategories),
		Limits: repository.LimitsSeed{
			MaxChannels:            s.plans.StarterChannels,
			MaxFeedsPerChannel:     s.plans.StarterFeedsPerChannel,
			MaxNotificationsPerDay: s.plans.StarterNotificationsPerDay,
			MinIntervalMinutes:     s.plans.StarterMinIntervalMinutes,
		},
	}, nil
}

func (s *OnboardingService) clearInFlight(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[userID]; ok {
		d.inFlight = false
	}
}

func (s *OnboardingService) toDTO(d *draft) dto.OnboardingDraft {
	out := dto.OnboardingDraft{
		Step:               d.step,
		OrganizationName:   d.organizationName,
		SelectedFeedIDs:    slices.Clone(d.selectedFeedIDs),
		SelectedCategories: slices.Clone(d.selectedCategories),
		Platform:           d.platform,
		SelectionCap:       s.plans.FreeFeedCap,
		CapReached:         len(d.selectedFeedIDs) >= s.plans.FreeFeedCap,
	}
	if d.pending != nil {
		scheduleType := d.scheduleType
		if scheduleType == "" {
			scheduleType = constants.ScheduleRealtime
		}
		out.PendingConnection = &dto.PendingConnection{
			Platform:     d.platform,
			WorkspaceID:  d.pending.WorkspaceID,
			ChannelID:    d.pending.ChannelID,
			Email:        d.pending.Email,
			ScheduleType: scheduleType,
		}
	}
	return out
}
