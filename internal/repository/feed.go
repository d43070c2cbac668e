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
	"time"

	"osiri-api/internal/database"
	"osiri-api/internal/model"
)

// FeedRepo implements FeedRepository
type FeedRepo struct {
	db *database.DB
}

// NewFeedRepo creates a new feed repository
func NewFeedRepo(db *database.DB) FeedRepository {
	return &FeedRepo{db: db}
}

// ListFeeds retrieves a page of the catalog. Category filtering happens in
// SQL because a category change triggers a refetch; text and language filters
// are applied by the catalog service over the fetched window.
func (r *FeedRepo) ListFeeds(category string, limit, offset int) ([]*model.Feed, error) {
	query := `
		SELECT uuid, name, description, language, categories, icon_url, created_at, updated_at
		FROM rss_feeds
	`
	args := []interface{}{}
	if category != "" {
		// categories is a JSON array stored as TEXT; substring match on the
		// quoted value is sufficient for the catalog's flat category ids.
		query += ` WHERE categories LIKE ?`
		args = append(args, `%"`+category+`"%`)
	}
	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []*model.Feed
	for rows.Next() {
		feed := &model.Feed{}
		var categories string
		var description, iconURL sql.NullString
		err := rows.Scan(&feed.UUID, &feed.Name, &description, &feed.Language,
			&categories, &iconURL, &feed.CreatedAt, &feed.UpdatedAt)
		if err != nil {
			return nil, err
		}
		feed.Description = description.String
		feed.IconURL = iconURL.String
		if err := json.Unmarshal([]byte(categories), &feed.Categories); err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}

	return feeds, rows.Err()
}

// GetFeedByUUID retrieves a feed by ID
func (r *FeedRepo) GetFeedByUUID(uuid string) (*model.Feed, error) {
	feed := &model.Feed{}
	var categories string
	var description, iconURL sql.NullString
	query := `
		SELECT uuid, name, description, language, categories, icon_url, created_at, updated_at
		FROM rss_feeds
		WHERE uuid = ?
	`
	err := r.db.QueryRow(r.db.Rebind(query), uuid).Scan(
		&feed.UUID, &feed.Name, &description, &feed.Language,
		&categories, &iconURL, &feed.CreatedAt, &feed.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	feed.Description = description.String
	feed.IconURL = iconURL.String
	if err := json.Unmarshal([]byte(categories), &feed.Categories); err != nil {
		return nil, err
	}
	return feed, nil
}

// UpsertFeed inserts or refreshes a catalog entry. Used by the startup seeder;
// user data never writes this table.
func (r *FeedRepo) UpsertFeed(feed *model.Feed) error {
	categories, err := marshalIDs(feed.Categories)
	if err != nil {
		return err
	}

	existing, err := r.GetFeedByUUID(feed.UUID)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		feed.CreatedAt = now
		feed.UpdatedAt = now
		query := `
			INSERT INTO rss_feeds (uuid, name, description, language, categories, icon_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = r.db.Exec(r.db.Rebind(query), feed.UUID, feed.Name, feed.Description,
			feed.Language, categories, feed.IconURL, feed.CreatedAt, feed.UpdatedAt)
		return err
	}

	feed.UpdatedAt = now
	query := `
		UPDATE rss_feeds
		SET name = ?, description = ?, language = ?, categories = ?, icon_url = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err = r.db.Exec(r.db.Rebind(query), feed.Name, feed.Description, feed.Language,
		categories, feed.IconURL, feed.UpdatedAt, feed.UUID)
	return err
}
