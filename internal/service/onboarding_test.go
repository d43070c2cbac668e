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
	"errors"
	"slices"
	"testing"

	"osiri-api/config"
	"osiri-api/internal/constants"
	"osiri-api/internal/model"
	"osiri-api/internal/platform"
	"osiri-api/internal/repository"
)

// mockOrgRepo embeds the interface so tests only implement the methods the
// code under test touches.
type mockOrgRepo struct {
	repository.OrganizationRepository
	member *model.OrganizationMember
}

func (m *mockOrgRepo) GetMemberByUserID(userID string) (*model.OrganizationMember, error) {
	return m.member, nil
}

type mockProvRepo struct {
	plan   *repository.ProvisioningPlan
	result *repository.ProvisioningResult
	err    error
}

func (m *mockProvRepo) ProvisionOrganization(p *repository.ProvisioningPlan) (*repository.ProvisioningResult, error) {
	m.plan = p
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		m.result = &repository.ProvisioningResult{
			OrganizationUUID: "org-1",
			MemberUUID:       "member-1",
			ChannelUUID:      "channel-1",
		}
	}
	return m.result, nil
}

type fakeExchanger struct {
	conn *platform.Connection
	err  error
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code string) (*platform.Connection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conn, nil
}

type recordingPublisher struct {
	events []string
}

func (r *recordingPublisher) Publish(userID, event string, payload interface{}) {
	r.events = append(r.events, event)
}

func testPlans() config.Plans {
	return config.Plans{
		DefaultFeedID:              "osiri-daily",
		FreeFeedCap:                3,
		StarterChannels:            1,
		StarterFeedsPerChannel:     5,
		StarterNotificationsPerDay: 100,
		StarterMinIntervalMinutes:  60,
		TrialDays:                  14,
	}
}

func newTestOnboarding(slackEx, discordEx platform.Exchanger) (*OnboardingService, *mockProvRepo, *mockOrgRepo, *recordingPublisher) {
	if slackEx == nil {
		slackEx = &fakeExchanger{conn: &platform.Connection{WorkspaceID: "T123", ChannelID: "C456", AccessToken: "xoxb-test"}}
	}
	if discordEx == nil {
		discordEx = &fakeExchanger{conn: &platform.Connection{WorkspaceID: "G123", ChannelID: "C789", AccessToken: "disc-test"}}
	}
	oauth := &config.OAuth{
		Slack:   config.OAuthApp{ClientID: "slack-client", RedirectURI: "https://app.example.com/callback"},
		Discord: config.OAuthApp{ClientID: "discord-client", RedirectURI: "https://app.example.com/callback"},
	}
	factory := platform.NewFactory(oauth, slackEx, discordEx)
	provRepo := &mockProvRepo{}
	orgRepo := &mockOrgRepo{}
	events := &recordingPublisher{}
	svc := NewOnboardingService(factory, provRepo, orgRepo, testPlans(), events)
	return svc, provRepo, orgRepo, events
}

func TestDraftStartsWithDefaultFeed(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)

	d := svc.Draft("user-1")
	if d.Step != constants.StepInterestSelection {
		t.Errorf("expected step %d, got %d", constants.StepInterestSelection, d.Step)
	}
	if !slices.Contains(d.SelectedFeedIDs, "osiri-daily") {
		t.Errorf("expected default feed in initial selection, got %v", d.SelectedFeedIDs)
	}
	if d.SelectionCap != 3 {
		t.Errorf("expected selection cap 3, got %d", d.SelectionCap)
	}
}

func TestToggleFeed(t *testing.T) {
	tests := []struct {
		name         string
		setup        []string // feeds toggled on before the test toggle
		toggle       string
		wantErr      error
		wantSelected bool
		wantAdvanced bool
	}{
		{
			name:         "add below cap",
			toggle:       "tech-wire",
			wantSelected: true,
		},
		{
			name:    "default feed is locked",
			toggle:  "osiri-daily",
			wantErr: constants.ErrDefaultFeedLocked,
		},
		{
			name:         "reaching cap advances the wizard",
			setup:        []string{"tech-wire"},
			toggle:       "ai-frontier",
			wantSelected: true,
			wantAdvanced: true,
		},
		{
			name:    "add at cap rejected",
			setup:   []string{"tech-wire", "ai-frontier"},
			toggle:  "market-pulse",
			wantErr: constants.ErrSelectionLimitReached,
		},
		{
			name:   "remove at cap allowed",
			setup:  []string{"tech-wire", "ai-frontier"},
			toggle: "tech-wire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestOnboarding(nil, nil)
			for _, id := range tt.setup {
				if _, _, err := svc.ToggleFeed("user-1", id); err != nil {
					t.Fatalf("setup toggle %s failed: %v", id, err)
				}
			}

			draft, advanced, err := svc.ToggleFeed("user-1", tt.toggle)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if advanced != tt.wantAdvanced {
				t.Errorf("expected advanced=%v, got %v", tt.wantAdvanced, advanced)
			}
			if got := slices.Contains(draft.SelectedFeedIDs, tt.toggle); tt.wantErr == nil && got != tt.wantSelected {
				t.Errorf("expected selected=%v for %s, got %v (selection %v)",
					tt.wantSelected, tt.toggle, got, draft.SelectedFeedIDs)
			}
		})
	}
}

func TestToggleFeedRejectionKeepsSelection(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	svc.ToggleFeed("user-1", "tech-wire")
	svc.ToggleFeed("user-1", "ai-frontier")

	before := svc.Draft("user-1").SelectedFeedIDs
	draft, _, err := svc.ToggleFeed("user-1", "market-pulse")
	if !errors.Is(err, constants.ErrSelectionLimitReached) {
		t.Fatalf("expected ErrSelectionLimitReached, got %v", err)
	}
	if !slices.Equal(draft.SelectedFeedIDs, before) {
		t.Errorf("selection changed on rejected toggle: before %v, after %v", before, draft.SelectedFeedIDs)
	}
}

func TestReplaceFeedsForcesDefault(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)

	draft, err := svc.ReplaceFeeds("user-1", []string{"tech-wire", "ai-frontier"})
	if err != nil {
		t.Fatalf("ReplaceFeeds failed: %v", err)
	}
	if !slices.Contains(draft.SelectedFeedIDs, "osiri-daily") {
		t.Errorf("default feed missing after replace: %v", draft.SelectedFeedIDs)
	}
	if len(draft.SelectedFeedIDs) != 3 {
		t.Errorf("expected 3 selected feeds, got %v", draft.SelectedFeedIDs)
	}

	if _, err := svc.ReplaceFeeds("user-1", []string{"a", "b", "c"}); !errors.Is(err, constants.ErrSelectionLimitReached) {
		t.Errorf("expected ErrSelectionLimitReached for over-cap replace, got %v", err)
	}
}

func TestSetPlatformLastWins(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)

	resp, err := svc.SetPlatform("user-1", constants.PlatformSlack, "en")
	if err != nil {
		t.Fatalf("SetPlatform slack failed: %v", err)
	}
	if resp.AuthorizeURL == "" {
		t.Error("expected authorize URL for slack")
	}

	if _, err := svc.HandleOAuthCallback(context.Background(), "user-1", "code-1"); err != nil {
		t.Fatalf("HandleOAuthCallback failed: %v", err)
	}
	if d := svc.Draft("user-1"); d.PendingConnection == nil {
		t.Fatal("expected pending connection after callback")
	}

	// Switching platforms discards the previous pending connection.
	if _, err := svc.SetPlatform("user-1", constants.PlatformDiscord, ""); err != nil {
		t.Fatalf("SetPlatform discord failed: %v", err)
	}
	d := svc.Draft("user-1")
	if d.Platform != constants.PlatformDiscord {
		t.Errorf("expected platform discord, got %q", d.Platform)
	}
	if d.PendingConnection != nil {
		t.Errorf("expected pending connection cleared on platform switch, got %+v", d.PendingConnection)
	}
}

func TestSetPlatformInvalid(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	if _, err := svc.SetPlatform("user-1", "telegram", ""); !errors.Is(err, constants.ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform, got %v", err)
	}
}

func TestHandleOAuthCallbackWithoutPlatform(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	_, err := svc.HandleOAuthCallback(context.Background(), "user-1", "code-1")
	if !errors.Is(err, constants.ErrNoPlatformSelected) {
		t.Errorf("expected ErrNoPlatformSelected, got %v", err)
	}
}

func TestHandleOAuthCallbackExchangeFailureKeepsDraft(t *testing.T) {
	failing := &fakeExchanger{err: constants.ErrOAuthExchangeFailed}
	svc, _, _, _ := newTestOnboarding(failing, nil)

	svc.SetPlatform("user-1", constants.PlatformSlack, "en")
	draft, err := svc.HandleOAuthCallback(context.Background(), "user-1", "bad-code")
	if !errors.Is(err, constants.ErrOAuthExchangeFailed) {
		t.Fatalf("expected ErrOAuthExchangeFailed, got %v", err)
	}
	if draft.PendingConnection != nil {
		t.Errorf("expected no pending connection after failed exchange, got %+v", draft.PendingConnection)
	}
	if draft.Platform != constants.PlatformSlack {
		t.Errorf("expected platform kept after failed exchange, got %q", draft.Platform)
	}
}

func TestSetEmail(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		scheduleType string
		wantErr      error
	}{
		{name: "valid with cadence", email: "team@example.com", scheduleType: constants.ScheduleDailyMorning},
		{name: "empty cadence defaults to realtime", email: "team@example.com"},
		{name: "missing address", email: "", wantErr: constants.ErrEmailRequired},
		{name: "address without at sign", email: "not-an-email", wantErr: constants.ErrEmailRequired},
		{name: "unknown cadence", email: "team@example.com", scheduleType: "hourly", wantErr: constants.ErrInvalidScheduleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestOnboarding(nil, nil)
			draft, err := svc.SetEmail("user-1", tt.email, tt.scheduleType)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}
			if draft.Platform != constants.PlatformEmail {
				t.Errorf("expected email platform, got %q", draft.Platform)
			}
			if draft.PendingConnection == nil || draft.PendingConnection.Email != tt.email {
				t.Errorf("expected pending email connection, got %+v", draft.PendingConnection)
			}
			wantSchedule := tt.scheduleType
			if wantSchedule == "" {
				wantSchedule = constants.ScheduleRealtime
			}
			if draft.PendingConnection.ScheduleType != wantSchedule {
				t.Errorf("expected schedule %q, got %q", wantSchedule, draft.PendingConnection.ScheduleType)
			}
		})
	}
}

func TestBackReturnsToInterestSelection(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	svc.ToggleFeed("user-1", "tech-wire")
	svc.ToggleFeed("user-1", "ai-frontier") // reaches cap, advances

	if d := svc.Draft("user-1"); d.Step != constants.StepPlatformSetup {
		t.Fatalf("expected step %d after cap, got %d", constants.StepPlatformSetup, d.Step)
	}
	if d := svc.Back("user-1"); d.Step != constants.StepInterestSelection {
		t.Errorf("expected step %d after back, got %d", constants.StepInterestSelection, d.Step)
	}
}

func TestCompleteEmailFlow(t *testing.T) {
	svc, provRepo, _, events := newTestOnboarding(nil, nil)

	svc.ToggleFeed("user-1", "tech-wire")
	if _, err := svc.SetEmail("user-1", "team@example.com", constants.ScheduleDailyMorning); err != nil {
		t.Fatalf("SetEmail failed: %v", err)
	}

	resp, err := svc.Complete(context.Background(), "user-1", "owner@example.com", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.OrganizationUUID == "" {
		t.Error("expected organization UUID in response")
	}

	plan := provRepo.plan
	if plan == nil {
		t.Fatal("expected a provisioning plan")
	}
	if plan.Platform != constants.PlatformEmail {
		t.Errorf("expected email platform, got %q", plan.Platform)
	}
	if plan.Recipient != "team@example.com" {
		t.Errorf("expected recipient team@example.com, got %q", plan.Recipient)
	}
	if plan.ScheduleType != constants.ScheduleDailyMorning {
		t.Errorf("expected daily_morning schedule, got %q", plan.ScheduleType)
	}
	if plan.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone Asia/Tokyo, got %q", plan.Timezone)
	}
	if !slices.Contains(plan.FeedIDs, "osiri-daily") || !slices.Contains(plan.FeedIDs, "tech-wire") {
		t.Errorf("unexpected feed selection in plan: %v", plan.FeedIDs)
	}
	if plan.Limits.MaxChannels != 1 || plan.Limits.MaxFeedsPerChannel != 5 {
		t.Errorf("unexpected starter limits: %+v", plan.Limits)
	}

	// The draft is discarded after a successful commit.
	if d := svc.Draft("user-1"); d.PendingConnection != nil {
		t.Errorf("expected a fresh draft after commit, got %+v", d)
	}

	if !slices.Contains(events.events, "organization.provisioned") {
		t.Errorf("expected organization.provisioned event, got %v", events.events)
	}
}

func TestCompleteDefaultsOrganizationName(t *testing.T) {
	svc, provRepo, _, _ := newTestOnboarding(nil, nil)

	svc.SetEmail("user-1", "team@example.com", "")
	if _, err := svc.Complete(context.Background(), "user-1", "jane@example.com", ""); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got := provRepo.plan.OrganizationName; got != "jane's Organization" {
		t.Errorf("expected derived organization name, got %q", got)
	}
}

func TestCompleteAlreadyProvisioned(t *testing.T) {
	svc, _, orgRepo, _ := newTestOnboarding(nil, nil)
	orgRepo.member = &model.OrganizationMember{UUID: "m-1", OrganizationUUID: "org-1", UserID: "user-1"}

	svc.SetEmail("user-1", "team@example.com", "")
	_, err := svc.Complete(context.Background(), "user-1", "jane@example.com", "")
	if !errors.Is(err, constants.ErrAlreadyProvisioned) {
		t.Errorf("expected ErrAlreadyProvisioned, got %v", err)
	}
}

func TestCompleteRequiresConnection(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		wantErr  error
	}{
		{name: "no platform", platform: "", wantErr: constants.ErrNoPlatformSelected},
		{name: "slack without callback", platform: constants.PlatformSlack, wantErr: constants.ErrConnectionIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestOnboarding(nil, nil)
			if tt.platform != "" {
				if _, err := svc.SetPlatform("user-1", tt.platform, ""); err != nil {
					t.Fatalf("SetPlatform failed: %v", err)
				}
			}
			_, err := svc.Complete(context.Background(), "user-1", "jane@example.com", "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompleteInvalidTimezone(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	svc.SetEmail("user-1", "team@example.com", constants.ScheduleWeekly)

	_, err := svc.Complete(context.Background(), "user-1", "jane@example.com", "Mars/Olympus")
	if !errors.Is(err, constants.ErrInvalidTimezone) {
		t.Errorf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestCompleteDuplicateSubmission(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	svc.SetEmail("user-1", "team@example.com", "")

	// First submission freezes the draft in flight.
	if _, err := svc.buildPlan("user-1", "jane@example.com", ""); err != nil {
		t.Fatalf("buildPlan failed: %v", err)
	}

	_, err := svc.Complete(context.Background(), "user-1", "jane@example.com", "")
	if !errors.Is(err, constants.ErrProvisionInProgress) {
		t.Errorf("expected ErrProvisionInProgress, got %v", err)
	}
}

func TestCompleteFailureKeepsDraft(t *testing.T) {
	svc, provRepo, _, _ := newTestOnboarding(nil, nil)
	provRepo.err = errors.New("database is on fire")

	svc.SetEmail("user-1", "team@example.com", "")
	if _, err := svc.Complete(context.Background(), "user-1", "jane@example.com", ""); err == nil {
		t.Fatal("expected Complete to fail")
	}

	// Draft survives so the user can retry, and is no longer in flight.
	d := svc.Draft("user-1")
	if d.PendingConnection == nil || d.PendingConnection.Email != "team@example.com" {
		t.Errorf("expected draft kept after failed commit, got %+v", d)
	}
	provRepo.err = nil
	if _, err := svc.Complete(context.Background(), "user-1", "jane@example.com", ""); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestResetDiscardsDraft(t *testing.T) {
	svc, _, _, _ := newTestOnboarding(nil, nil)
	svc.ToggleFeed("user-1", "tech-wire")
	svc.Reset("user-1")

	d := svc.Draft("user-1")
	if len(d.SelectedFeedIDs) != 1 || d.SelectedFeedIDs[0] != "osiri-daily" {
		t.Errorf("expected fresh draft after reset, got %v", d.SelectedFeedIDs)
	}
}
