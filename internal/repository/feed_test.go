package repository

import (
	"testing"

	"osiri-api/internal/model"
)

func seedFeeds(t *testing.T, repo FeedRepository, feeds ...*model.Feed) {
	t.Helper()
	for _, f := range feeds {
		if err := repo.UpsertFeed(f); err != nil {
			t.Fatalf("UpsertFeed %s failed: %v", f.UUID, err)
		}
	}
}

func TestListFeedsByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepo(db)

	seedFeeds(t, repo,
		&model.Feed{UUID: "a", Name: "Alpha Wire", Language: "en", Categories: []string{"technology"}},
		&model.Feed{UUID: "b", Name: "Beta Pulse", Language: "en", Categories: []string{"finance"}},
		&model.Feed{UUID: "c", Name: "Gamma Brief", Language: "ja", Categories: []string{"technology", "finance"}},
	)

	feeds, err := repo.ListFeeds("technology", 10, 0)
	if err != nil {
		t.Fatalf("ListFeeds failed: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 technology feeds, got %d", len(feeds))
	}
	// Ordered by name: Alpha before Gamma.
	if feeds[0].UUID != "a" || feeds[1].UUID != "c" {
		t.Errorf("unexpected order: %s, %s", feeds[0].UUID, feeds[1].UUID)
	}

	all, err := repo.ListFeeds("", 10, 0)
	if err != nil {
		t.Fatalf("ListFeeds without category failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 feeds without category filter, got %d", len(all))
	}
}

func TestListFeedsPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepo(db)

	seedFeeds(t, repo,
		&model.Feed{UUID: "a", Name: "A", Language: "en", Categories: []string{"general"}},
		&model.Feed{UUID: "b", Name: "B", Language: "en", Categories: []string{"general"}},
		&model.Feed{UUID: "c", Name: "C", Language: "en", Categories: []string{"general"}},
	)

	page, err := repo.ListFeeds("", 2, 0)
	if err != nil {
		t.Fatalf("ListFeeds failed: %v", err)
	}
	if len(page) != 2 || page[0].UUID != "a" || page[1].UUID != "b" {
		t.Errorf("unexpected first page: %+v", page)
	}

	page, err = repo.ListFeeds("", 2, 2)
	if err != nil {
		t.Fatalf("ListFeeds offset failed: %v", err)
	}
	if len(page) != 1 || page[0].UUID != "c" {
		t.Errorf("unexpected second page: %+v", page)
	}
}

func TestUpsertFeedRefreshesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFeedRepo(db)

	seedFeeds(t, repo, &model.Feed{UUID: "a", Name: "Old Name", Language: "en", Categories: []string{"general"}})
	seedFeeds(t, repo, &model.Feed{UUID: "a", Name: "New Name", Language: "ja", Categories: []string{"technology"}})

	feed, err := repo.GetFeedByUUID("a")
	if err != nil {
		t.Fatalf("GetFeedByUUID failed: %v", err)
	}
	if feed.Name != "New Name" || feed.Language != "ja" {
		t.Errorf("upsert did not refresh: %+v", feed)
	}
	if len(feed.Categories) != 1 || feed.Categories[0] != "technology" {
		t.Errorf("categories not refreshed: %v", feed.Categories)
	}

	feeds, err := repo.ListFeeds("", 10, 0)
	if err != nil {
		t.Fatalf("ListFeeds failed: %v", err)
	}
	if len(feeds) != 1 {
		t.Errorf("expected a single row after upsert, got %d", len(feeds))
	}
}
