package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDeleteUserCascades(t *testing.T) {
	repo, mock := newMockRepository(t)
	users := NewUserRepository(repo)

	// All edge cleanup and the user delete run inside one transaction
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "follows" WHERE follower_id = \$1 OR followed_id = \$2`).
		WithArgs(int64(5), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "post_likes" WHERE user_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "author_id"=\$1 WHERE author_id = \$2`).
		WithArgs(nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "author_id"=\$1 WHERE author_id = \$2`).
		WithArgs(nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := users.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("cascade statements not issued as expected: %v", err)
	}
}

func TestDeleteUserRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	users := NewUserRepository(repo)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "follows"`).
		WithArgs(int64(5), int64(5)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := users.Delete(context.Background(), 5); err == nil {
		t.Error("Delete should surface the failed cascade")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction was not rolled back: %v", err)
	}
}
