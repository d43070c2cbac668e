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
	"encoding/json"
	"errors"

	"osiri-api/internal/database"
	"osiri-api/internal/model"
)

// NotificationRepo implements NotificationRepository
type NotificationRepo struct {
	db *database.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *database.DB) NotificationRepository {
	return &NotificationRepo{db: db}
}

// GetConnectionsByOrganizationUUID retrieves all workspace connections of an organization
func (r *NotificationRepo) GetConnectionsByOrganizationUUID(orgUUID string) ([]*model.WorkspaceConnection, error) {
	query := `
		SELECT uuid, organization_uuid, platform, workspace_id, access_token, is_active, disconnected_at, created_at, updated_at
		FROM workspace_connections
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(r.db.Rebind(query), orgUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []*model.WorkspaceConnection
	for rows.Next() {
		conn := &model.WorkspaceConnection{}
		err := rows.Scan(&conn.UUID, &conn.OrganizationUUID, &conn.Platform, &conn.WorkspaceID,
			&conn.AccessToken, &conn.IsActive, &conn.DisconnectedAt, &conn.CreatedAt, &conn.UpdatedAt)
		if err != nil {
			return nil, err
		}
		connections = append(connections, conn)
	}

	return connections, rows.Err()
}

// GetChannelsByOrganizationUUID retrieves all notification channels of an organization
func (r *NotificationRepo) GetChannelsByOrganizationUUID(orgUUID string) ([]*model.NotificationChannel, error) {
	query := `
		SELECT uuid, organization_uuid, connection_uuid, schedule_uuid, platform, recipient,
			feed_ids, category_ids, is_active, created_at, updated_at
		FROM notification_channels
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(r.db.Rebind(query), orgUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []*model.NotificationChannel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, rows.Err()
}

// GetScheduleByUUID retrieves a notification schedule by ID
func (r *NotificationRepo) GetScheduleByUUID(uuid string) (*model.NotificationSchedule, error) {
	schedule := &model.NotificationSchedule{}
	query := `
		SELECT uuid, organization_uuid, name, schedule_type, timezone, created_at, updated_at
		FROM notification_schedules
		WHERE uuid = ?
	`
	err := r.db.QueryRow(r.db.Rebind(query), uuid).Scan(
		&schedule.UUID, &schedule.OrganizationUUID, &schedule.Name,
		&schedule.ScheduleType, &schedule.Timezone, &schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return schedule, nil
}

func scanChannel(rows *sql.Rows) (*model.NotificationChannel, error) {
	channel := &model.NotificationChannel{}
	var feedIDs, categoryIDs string
	err := rows.Scan(&channel.UUID, &channel.OrganizationUUID, &channel.ConnectionUUID,
		&channel.ScheduleUUID, &channel.Platform, &channel.Recipient,
		&feedIDs, &categoryIDs, &channel.IsActive, &channel.CreatedAt, &channel.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(feedIDs), &channel.FeedIDs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(categoryIDs), &channel.CategoryIDs); err != nil {
		return nil, err
	}
	return channel, nil
}

// marshalIDs encodes an id list for the TEXT columns; nil encodes as "[]".
func marshalIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
