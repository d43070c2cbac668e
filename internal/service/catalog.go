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
	"slices"
	"strings"
	"sync"

	"osiri-api/internal/constants"
	"osiri-api/internal/dto"
	"osiri-api/internal/model"
	"osiri-api/internal/repository"
)

// catalogWindow is one user's accumulated browse window: the pages fetched so
// far for the current category filter.
type catalogWindow struct {
	category string
	page     int
	feeds    []*model.Feed
	hasMore  bool
}

// CatalogService serves the browsable feed catalog.
//
// Only a category change triggers a refetch (and resets the window to page 1).
// Text and language filters are applied over the already-fetched window, so a
// feed matching a text query on an unfetched page does not appear until the
// user pages further. That is the contract, not an accident; callers and
// tests rely on it.
type CatalogService struct {
	mu       sync.Mutex
	windows  map[string]*catalogWindow
	feedRepo repository.FeedRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(feedRepo repository.FeedRepository) *CatalogService {
	return &CatalogService{
		windows:  make(map[string]*catalogWindow),
		feedRepo: feedRepo,
	}
}

// BrowseParams are the catalog filters. Query and Language filter the fetched
// window; Category and Page drive fetching.
type BrowseParams struct {
	Category string
	Language string
	Query    string
	Page     int
}

// Browse returns the visible slice of the user's browse window after applying
// the conjunctive filters.
//
// Page 1 (or a category change) replaces the window; higher pages append the
// next catalog page to it. Requesting a page at or below the current one
// leaves the window as is and just re-filters.
func (s *CatalogService) Browse(userID string, p BrowseParams) (*dto.FeedPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[userID]
	if !ok || w.category != p.Category || p.Page == 1 {
		w = &catalogWindow{category: p.Category}
		s.windows[userID] = w
	}

	for w.page < p.Page {
		feeds, err := s.feedRepo.ListFeeds(w.category, constants.FeedPageSize, w.page*constants.FeedPageSize)
		if err != nil {
			return nil, err
		}
		w.page++
		w.feeds = append(w.feeds, feeds...)
		w.hasMore = len(feeds) == constants.FeedPageSize
		if !w.hasMore {
			break
		}
	}

	visible := filterFeeds(w.feeds, p.Query, p.Language)
	out := make([]dto.Feed, 0, len(visible))
	for _, f := range visible {
		out = append(out, dto.Feed{
			UUID:        f.UUID,
			Name:        f.Name,
			Description: f.Description,
			Language:    f.Language,
			Categories:  slices.Clone(f.Categories),
			IconURL:     f.IconURL,
		})
	}

	return &dto.FeedPage{Feeds: out, Page: w.page, HasMore: w.hasMore}, nil
}

// filterFeeds applies the conjunctive text and language filters: a feed must
// pass all of them to display.
func filterFeeds(feeds []*model.Feed, query, language string) []*model.Feed {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []*model.Feed
	for _, f := range feeds {
		if language != "" && f.Language != language {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.Description), query) {
			continue
		}
		out = append(out, f)
	}
	return out
}
