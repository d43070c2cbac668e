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
	"errors"
	"time"

	"osiri-api/internal/database"
	"osiri-api/internal/model"
)

// OrganizationRepo implements OrganizationRepository
type OrganizationRepo struct {
	db *database.DB
}

// NewOrganizationRepo creates a new organization repository
func NewOrganizationRepo(db *database.DB) OrganizationRepository {
	return &OrganizationRepo{db: db}
}

// CreateOrganization inserts a new organization
func (r *OrganizationRepo) CreateOrganization(org *model.Organization) error {
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	query := `
		INSERT INTO organizations (uuid, name, language, subscription_status, trial_end_date, will_cancel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query), org.UUID, org.Name, org.Language,
		org.SubscriptionStatus, org.TrialEndDate, org.WillCancel, org.CreatedAt, org.UpdatedAt)

	return err
}

// GetOrganizationByUUID retrieves an organization by ID
func (r *OrganizationRepo) GetOrganizationByUUID(orgUUID string) (*model.Organization, error) {
	org := &model.Organization{}
	query := `
		SELECT uuid, name, language, subscription_status, trial_end_date, will_cancel, created_at, updated_at
		FROM organizations
		WHERE uuid = ?
	`
	err := r.db.QueryRow(r.db.Rebind(query), orgUUID).Scan(
		&org.UUID, &org.Name, &org.Language, &org.SubscriptionStatus,
		&org.TrialEndDate, &org.WillCancel, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// UpdateOrganization modifies an existing organization
func (r *OrganizationRepo) UpdateOrganization(org *model.Organization) error {
	org.UpdatedAt = time.Now()
	query := `
		UPDATE organizations
		SET name = ?, language = ?, subscription_status = ?, trial_end_date = ?, will_cancel = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), org.Name, org.Language,
		org.SubscriptionStatus, org.TrialEndDate, org.WillCancel, org.UpdatedAt, org.UUID)

	return err
}

// DeleteOrganization removes an organization
func (r *OrganizationRepo) DeleteOrganization(orgUUID string) error {
	query := `DELETE FROM organizations WHERE uuid = ?`
	_, err := r.db.Exec(r.db.Rebind(query), orgUUID)
	return err
}

// CreateMember inserts a membership row
func (r *OrganizationRepo) CreateMember(member *model.OrganizationMember) error {
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()

	query := `
		INSERT INTO organization_members (uuid, organization_uuid, user_id, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query), member.UUID, member.OrganizationUUID,
		member.UserID, member.Role, member.CreatedAt, member.UpdatedAt)

	return err
}

// GetMemberByUserID retrieves a user's membership row. A user has at most one
// membership in this schema; absence is returned as (nil, nil).
func (r *OrganizationRepo) GetMemberByUserID(userID string) (*model.OrganizationMember, error) {
	member := &model.OrganizationMember{}
	query := `
		SELECT uuid, organization_uuid, user_id, role, created_at, updated_at
		FROM organization_members
		WHERE user_id = ?
	`
	err := r.db.QueryRow(r.db.Rebind(query), userID).Scan(
		&member.UUID, &member.OrganizationUUID, &member.UserID,
		&member.Role, &member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// CreateLimits inserts a subscription limits row
func (r *OrganizationRepo) CreateLimits(limits *model.SubscriptionLimits) error {
	limits.CreatedAt = time.Now()
	limits.UpdatedAt = time.Now()

	query := `
		INSERT INTO subscription_limits (organization_uuid, max_channels, max_feeds_per_channel,
			max_notifications_per_day, min_notification_interval_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(r.db.Rebind(query), limits.OrganizationUUID, limits.MaxChannels,
		limits.MaxFeedsPerChannel, limits.MaxNotificationsPerDay, limits.MinIntervalMinutes,
		limits.CreatedAt, limits.UpdatedAt)

	return err
}

// GetLimitsByOrganizationUUID retrieves the limits row for an organization
func (r *OrganizationRepo) GetLimitsByOrganizationUUID(orgUUID string) (*model.SubscriptionLimits, error) {
	limits := &model.SubscriptionLimits{}
	query := `
		SELECT organization_uuid, max_channels, max_feeds_per_channel,
			max_notifications_per_day, min_notification_interval_minutes, created_at, updated_at
		FROM subscription_limits
		WHERE organization_uuid = ?
	`
	err := r.db.QueryRow(r.db.Rebind(query), orgUUID).Scan(
		&limits.OrganizationUUID, &limits.MaxChannels, &limits.MaxFeedsPerChannel,
		&limits.MaxNotificationsPerDay, &limits.MinIntervalMinutes,
		&limits.CreatedAt, &limits.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return limits, nil
}
