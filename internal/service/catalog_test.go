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
	"testing"

	"osiri-api/internal/model"
	"osiri-api/internal/repository"
)

// mockFeedRepo serves a fixed catalog and counts ListFeeds calls so tests can
// assert when the window is refetched.
type mockFeedRepo struct {
	repository.FeedRepository
	feeds     map[string][]*model.Feed // category -> feeds
	listCalls int
}

func (m *mockFeedRepo) ListFeeds(category string, limit, offset int) ([]*model.Feed, error) {
	m.listCalls++
	all := m.feeds[category]
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func makeFeeds(category string, count int) []*model.Feed {
	feeds := make([]*model.Feed, 0, count)
	for i := 0; i < count; i++ {
		lang := "en"
		if i%3 == 0 {
			lang = "ja"
		}
		feeds = append(feeds, &model.Feed{
			UUID:        fmt.Sprintf("%s-%02d", category, i),
			Name:        fmt.Sprintf("%s feed %02d", category, i),
			Description: fmt.Sprintf("all about %s, issue %02d", category, i),
			Language:    lang,
			Categories:  []string{category},
		})
	}
	return feeds
}

func TestBrowsePagination(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"tech": makeFeeds("tech", 25),
	}}
	svc := NewCatalogService(repo)

	page, err := svc.Browse("user-1", BrowseParams{Category: "tech", Page: 1})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	if len(page.Feeds) != 10 {
		t.Errorf("expected 10 feeds on page 1, got %d", len(page.Feeds))
	}
	if !page.HasMore {
		t.Error("expected more pages after page 1")
	}

	// Page 2 appends to the window; the visible set grows.
	page, err = svc.Browse("user-1", BrowseParams{Category: "tech", Page: 2})
	if err != nil {
		t.Fatalf("Browse page 2 failed: %v", err)
	}
	if len(page.Feeds) != 20 {
		t.Errorf("expected 20 feeds after page 2, got %d", len(page.Feeds))
	}

	// Final page is short and clears HasMore.
	page, err = svc.Browse("user-1", BrowseParams{Category: "tech", Page: 3})
	if err != nil {
		t.Fatalf("Browse page 3 failed: %v", err)
	}
	if len(page.Feeds) != 25 {
		t.Errorf("expected 25 feeds after page 3, got %d", len(page.Feeds))
	}
	if page.HasMore {
		t.Error("expected no more pages after the full catalog is fetched")
	}
}

func TestBrowseCategoryChangeResetsWindow(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"tech":    makeFeeds("tech", 25),
		"finance": makeFeeds("finance", 5),
	}}
	svc := NewCatalogService(repo)

	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 1})
	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 2})

	page, err := svc.Browse("user-1", BrowseParams{Category: "finance", Page: 2})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	for _, f := range page.Feeds {
		if f.Categories[0] != "finance" {
			t.Fatalf("window still holds feeds from the previous category: %v", f.UUID)
		}
	}
	if page.HasMore {
		t.Error("expected small category to be exhausted")
	}
}

func TestBrowseTextFilterDoesNotRefetch(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"tech": makeFeeds("tech", 25),
	}}
	svc := NewCatalogService(repo)

	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 1})
	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 2})
	calls := repo.listCalls

	// Filtering the fetched window must not hit the repository again.
	page, err := svc.Browse("user-1", BrowseParams{Category: "tech", Page: 2, Query: "issue 07"})
	if err != nil {
		t.Fatalf("Browse with query failed: %v", err)
	}
	if repo.listCalls != calls {
		t.Errorf("expected no refetch for text filter, got %d extra calls", repo.listCalls-calls)
	}
	if len(page.Feeds) != 1 || page.Feeds[0].UUID != "tech-07" {
		t.Errorf("expected only tech-07 to match, got %v", page.Feeds)
	}
}

func TestBrowseLanguageFilter(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"": makeFeeds("general", 10),
	}}
	svc := NewCatalogService(repo)

	page, err := svc.Browse("user-1", BrowseParams{Language: "ja", Page: 1})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	for _, f := range page.Feeds {
		if f.Language != "ja" {
			t.Errorf("expected only ja feeds, got %s (%s)", f.UUID, f.Language)
		}
	}
	if len(page.Feeds) != 4 {
		t.Errorf("expected 4 ja feeds, got %d", len(page.Feeds))
	}
}

func TestBrowseFiltersAreConjunctive(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"tech": makeFeeds("tech", 10),
	}}
	svc := NewCatalogService(repo)

	page, err := svc.Browse("user-1", BrowseParams{Category: "tech", Language: "ja", Query: "issue 03", Page: 1})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	// tech-03 matches the query and is a ja feed (every third one is).
	if len(page.Feeds) != 1 || page.Feeds[0].UUID != "tech-03" {
		t.Errorf("expected only tech-03, got %v", page.Feeds)
	}
}

func TestBrowseWindowsArePerUser(t *testing.T) {
	repo := &mockFeedRepo{feeds: map[string][]*model.Feed{
		"tech": makeFeeds("tech", 25),
	}}
	svc := NewCatalogService(repo)

	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 1})
	svc.Browse("user-1", BrowseParams{Category: "tech", Page: 2})

	page, err := svc.Browse("user-2", BrowseParams{Category: "tech", Page: 1})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	if len(page.Feeds) != 10 {
		t.Errorf("expected user-2 to start a fresh window, got %d feeds", len(page.Feeds))
	}
}
