package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListFollowedOnlyJoinsFollowGraph(t *testing.T) {
	repo, mock := newMockRepository(t)
	posts := NewPostRepository(repo)

	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" INNER JOIN follows ON follows\.followed_id = posts\.author_id WHERE follows\.follower_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT (.+) FROM "posts" INNER JOIN follows ON follows\.followed_id = posts\.author_id WHERE follows\.follower_id = \$1 ORDER BY posts\.created_at DESC`).
		WithArgs(int64(9), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "image_file", "created_at", "author_id"}).
			AddRow(int64(2), "second", "default.jpg", now, int64(7)).
			AddRow(int64(1), "first", "default.jpg", earlier, int64(7)))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(int64(7), "bob"))

	items, total, err := posts.List(context.Background(), FeedFilterFollowed, 9, 1, 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(items) != 2 {
		t.Fatalf("returned %d posts, want 2", len(items))
	}
	if items[0].Content != "second" || items[1].Content != "first" {
		t.Error("posts not ordered newest first")
	}
	for _, p := range items {
		if !p.AuthoredBy(7) {
			t.Errorf("post %d not authored by the followed user", p.ID)
		}
		if p.Author == nil || p.Author.Username != "bob" {
			t.Errorf("post %d author not preloaded", p.ID)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListAllSkipsFollowJoin(t *testing.T) {
	repo, mock := newMockRepository(t)
	posts := NewPostRepository(repo)

	// The all-posts feed must not touch the follow graph
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM "posts" ORDER BY posts\.created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "image_file", "created_at", "author_id"}).
			AddRow(int64(1), "hello", "default.jpg", time.Now().UTC(), int64(7)))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(int64(7), "bob"))

	items, total, err := posts.List(context.Background(), FeedFilterAll, 0, 1, 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, items = %d, want 1 and 1", total, len(items))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
