package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flocksocial/flock/internal/models"
)

// newMockRepository wires a gorm connection over sqlmock so repository
// queries can be asserted without a live database.
func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return NewRepository(gdb), mock
}

func TestIsFollowing(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := follows.IsFollowing(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if !ok {
		t.Error("expected IsFollowing to be true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestIsFollowingNoEdge(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := follows.IsFollowing(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if ok {
		t.Error("expected IsFollowing to be false")
	}
}

func TestIsFollowingUnsavedUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	// No query at all for an unsaved (zero ID) target
	ok, err := follows.IsFollowing(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if ok {
		t.Error("expected IsFollowing to be false for an unsaved user")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected query issued: %v", err)
	}
}

func TestFollowSelf(t *testing.T) {
	repo, _ := newMockRepository(t)
	follows := NewFollowRepository(repo)

	err := follows.Follow(context.Background(), 7, 7)
	if !errors.Is(err, models.ErrSelfFollow) {
		t.Errorf("Follow(a, a) error = %v, want ErrSelfFollow", err)
	}
}

func TestFollowAlreadyFollowingIsNoOp(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	// Existence check answers true; no insert should follow
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := follows.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected insert issued: %v", err)
	}
}

func TestFollowCreatesEdge(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "follows"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := follows.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUnfollowAbsentEdgeIsNoOp(t *testing.T) {
	repo, mock := newMockRepository(t)
	follows := NewFollowRepository(repo)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "follows"`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := follows.Unfollow(context.Background(), 1, 2); err != nil {
		t.Errorf("Unfollow of absent edge should not error: %v", err)
	}
}

func TestHasLiked(t *testing.T) {
	repo, mock := newMockRepository(t)
	likes := NewLikeRepository(repo)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "post_likes"`).
		WithArgs(int64(3), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := likes.HasLiked(context.Background(), 3, 9)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if !ok {
		t.Error("expected HasLiked to be true")
	}
}

func TestLikeAlreadyLikedIsNoOp(t *testing.T) {
	repo, mock := newMockRepository(t)
	likes := NewLikeRepository(repo)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "post_likes"`).
		WithArgs(int64(3), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := likes.Like(context.Background(), 3, 9); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected insert issued: %v", err)
	}
}

func TestUnlikeAbsentEdgeIsNoOp(t *testing.T) {
	repo, mock := newMockRepository(t)
	likes := NewLikeRepository(repo)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "post_likes"`).
		WithArgs(int64(3), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := likes.Unlike(context.Background(), 3, 9); err != nil {
		t.Errorf("Unlike of absent edge should not error: %v", err)
	}
}
