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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"osiri-api/internal/model"
	"osiri-api/internal/repository"
)

// FeedDefinition is one catalog entry as declared in the YAML resources.
type FeedDefinition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Categories  []string `yaml:"categories"`
	IconURL     string   `yaml:"icon_url"`
}

// FeedSeeder upserts the declared feed catalog into the database at startup.
type FeedSeeder struct {
	feedRepo    repository.FeedRepository
	definitions []FeedDefinition
}

// NewFeedSeeder creates a new feed seeder
func NewFeedSeeder(feedRepo repository.FeedRepository, definitions []FeedDefinition) *FeedSeeder {
	return &FeedSeeder{feedRepo: feedRepo, definitions: definitions}
}

// Seed upserts every declared feed. Failures on individual feeds abort the
// seed; the upsert is idempotent so a restart retries cleanly.
func (s *FeedSeeder) Seed() error {
	for _, def := range s.definitions {
		feed := &model.Feed{
			UUID:        def.ID,
			Name:        def.Name,
			Description: def.Description,
			Language:    def.Language,
			Categories:  def.Categories,
			IconURL:     def.IconURL,
		}
		if feed.Language == "" {
			feed.Language = "en"
		}
		if err := s.feedRepo.UpsertFeed(feed); err != nil {
			return fmt.Errorf("failed to seed feed %s: %w", def.ID, err)
		}
	}
	return nil
}

// LoadFeedDefinitionsFromDirectory reads every .yaml/.yml file in dir. Each
// file holds a list of feed definitions.
func LoadFeedDefinitionsFromDirectory(dir string) ([]FeedDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed definitions directory %s: %w", dir, err)
	}

	var definitions []FeedDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read feed definition %s: %w", entry.Name(), err)
		}

		var defs []FeedDefinition
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("failed to parse feed definition %s: %w", entry.Name(), err)
		}
		for _, def := range defs {
			if def.ID == "" || def.Name == "" {
				return nil, fmt.Errorf("feed definition in %s is missing id or name", entry.Name())
			}
		}
		definitions = append(definitions, defs...)
	}

	return definitions, nil
}
