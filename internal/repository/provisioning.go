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

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"osiri-api/internal/constants"
	"osiri-api/internal/database"
	"osiri-api/internal/utils"

	"github.com/google/uuid"
)

// ProvisioningPlan is the fully-resolved input for one onboarding commit.
// Ordering matters: organization before member, connection and channel;
// schedule before channel when the cadence is non-realtime.
type ProvisioningPlan struct {
	UserID           string
	OrganizationName string
	Language         string
	TrialEndDate     *time.Time

	// Platform and connection; Platform empty means no connection is created.
	Platform    string
	WorkspaceID string
	AccessToken *string

	// Recipient is the channel id for chat platforms, the address for email.
	Recipient string

	// ScheduleType realtime (or empty) creates no schedule row.
	ScheduleType string
	Timezone     string

	FeedIDs     []string
	CategoryIDs []string

	Limits LimitsSeed
}

// LimitsSeed is the starter subscription_limits row created with the organization.
type LimitsSeed struct {
	MaxChannels            int
	MaxFeedsPerChannel     int
	MaxNotificationsPerDay int
	MinIntervalMinutes     int
}

// ProvisioningResult reports the identifiers of the created rows.
type ProvisioningResult struct {
	OrganizationUUID string
	MemberUUID       string
	ConnectionUUID   *string
	ScheduleUUID     *string
	ChannelUUID      string
}

// ProvisioningRepo implements ProvisioningRepository
type ProvisioningRepo struct {
	db *database.DB
}

// NewProvisioningRepo creates a new provisioning repository
func NewProvisioningRepo(db *database.DB) ProvisioningRepository {
	return &ProvisioningRepo{db: db}
}

// ProvisionOrganization creates the organization, owner membership, optional
// workspace connection, optional schedule, notification channel and starter
// limits in a single transaction. A failure at any step rolls everything back,
// so an orphaned organization cannot persist.
func (r *ProvisioningRepo) ProvisionOrganization(p *ProvisioningPlan) (*ProvisioningResult, error) {
	now := time.Now()
	result := &ProvisioningResult{
		OrganizationUUID: uuid.New().String(),
		MemberUUID:       uuid.New().String(),
		ChannelUUID:      uuid.New().String(),
	}

	err := r.db.WithTx(func(tx *sql.Tx) error {
		if err := r.insertOrganization(tx, p, result.OrganizationUUID, now); err != nil {
			return provisionStepError("organization", err)
		}

		if err := r.insertMember(tx, p, result, now); err != nil {
			return provisionStepError("member", err)
		}

		if p.Platform != "" {
			connUUID := uuid.New().String()
			if err := r.insertConnection(tx, p, result.OrganizationUUID, connUUID, now); err != nil {
				return provisionStepError("connection", err)
			}
			result.ConnectionUUID = &connUUID
		}

		if p.ScheduleType != "" && p.ScheduleType != constants.ScheduleRealtime {
			scheduleUUID := uuid.New().String()
			if err := r.insertSchedule(tx, p, result.OrganizationUUID, scheduleUUID, now); err != nil {
				return provisionStepError("schedule", err)
			}
			result.ScheduleUUID = &scheduleUUID
		}

		if err := r.insertChannel(tx, p, result, now); err != nil {
			return provisionStepError("channel", err)
		}

		if err := r.insertLimits(tx, p, result.OrganizationUUID, now); err != nil {
			return provisionStepError("limits", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// provisionStepError tags a failure with the step it happened at. The
// transaction rolls back, but the log line distinguishes an aborted commit
// from a clean one.
func provisionStepError(step string, err error) error {
	utils.LogError(fmt.Sprintf("provisioning aborted at step %q, rolling back", step), err)
	return fmt.Errorf("provisioning step %s: %w", step, err)
}

func (r *ProvisioningRepo) insertOrganization(tx *sql.Tx, p *ProvisioningPlan, orgUUID string, now time.Time) error {
	query := `
		INSERT INTO organizations (uuid, name, language, subscription_status, trial_end_date, will_cancel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(r.db.Rebind(query), orgUUID, p.OrganizationName, p.Language,
		constants.SubscriptionTrialing, p.TrialEndDate, false, now, now)
	return err
}

func (r *ProvisioningRepo) insertMember(tx *sql.Tx, p *ProvisioningPlan, result *ProvisioningResult, now time.Time) error {
	query := `
		INSERT INTO organization_members (uuid, organization_uuid, user_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(r.db.Rebind(query), result.MemberUUID, result.OrganizationUUID,
		p.UserID, constants.RoleOwner, now, now)
	return err
}

func (r *ProvisioningRepo) insertConnection(tx *sql.Tx, p *ProvisioningPlan, orgUUID, connUUID string, now time.Time) error {
	query := `
		INSERT INTO workspace_connections (uuid, organization_uuid, platform, workspace_id, access_token, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(r.db.Rebind(query), connUUID, orgUUID, p.Platform,
		p.WorkspaceID, p.AccessToken, true, now, now)
	return err
}

func (r *ProvisioningRepo) insertSchedule(tx *sql.Tx, p *ProvisioningPlan, orgUUID, scheduleUUID string, now time.Time) error {
	tz := p.Timezone
	if tz == "" {
		tz = "UTC"
	}
	query := `
		INSERT INTO notification_schedules (uuid, organization_uuid, name, schedule_type, timezone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(r.db.Rebind(query), scheduleUUID, orgUUID,
		utils.ScheduleName(p.ScheduleType), p.ScheduleType, tz, now, now)
	return err
}

func (r *ProvisioningRepo) insertChannel(tx *sql.Tx, p *ProvisioningPlan, result *ProvisioningResult, now time.Time) error {
	feedIDs, err := marshalIDs(p.FeedIDs)
	if err != nil {
		return err
	}
	categoryIDs, err := marshalIDs(p.CategoryIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notification_channels (uuid, organization_uuid, connection_uuid, schedule_uuid,
			platform, recipient, feed_ids, category_ids, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(r.db.Rebind(query), result.ChannelUUID, result.OrganizationUUID,
		result.ConnectionUUID, result.ScheduleUUID, p.Platform, p.Recipient,
		feedIDs, categoryIDs, true, now, now)
	return err
}

func (r *ProvisioningRepo) insertLimits(tx *sql.Tx, p *ProvisioningPlan, orgUUID string, now time.Time) error {
	query := `
		INSERT INTO subscription_limits (organization_uuid, max_channels, max_feeds_per_channel,
			max_notifications_per_day, min_notification_interval_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(r.db.Rebind(query), orgUUID, p.Limits.MaxChannels,
		p.Limits.MaxFeedsPerChannel, p.Limits.MaxNotificationsPerDay,
		p.Limits.MinIntervalMinutes, now, now)
	return err
}
