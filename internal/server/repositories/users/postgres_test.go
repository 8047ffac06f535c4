package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *models.User {
	return &models.User{
		Email:    "alice@example.com",
		Name:     "Alice",
		Hash:     []byte("hash"),
		Salt:     []byte("salt"),
		Provider: models.ProviderLocal,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*name,\s*hash,\s*salt,\s*provider\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow("u-42")
	mock.ExpectQuery(q).
		WithArgs("alice@example.com", "Alice", []byte("hash"), []byte("salt"), "local").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), sampleUser())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "name", "hash", "salt", "provider", "created_at", "updated_at"}).
		AddRow("u-1", "alice@example.com", "Alice", []byte("hash"), []byte("salt"), "local", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*email,\s*name,\s*hash,\s*salt,\s*provider,\s*created_at,\s*updated_at\s+FROM\s+users`).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Provider != "local" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+users`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), &models.User{ID: "u-1"}); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestUpdatePassword_ReplacesPairInOneStatement(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+hash\s*=\s*\$2,\s*salt\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1", []byte("newhash"), []byte("newsalt")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "u-1", []byte("newhash"), []byte("newsalt")); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)`).
		WithArgs("u-1", "Bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateName(context.Background(), "u-1", "Bob"); err != nil {
		t.Fatalf("UpdateName error: %v", err)
	}
}

func TestUpdateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+email\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)`).
		WithArgs("u-1", "new@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateEmail(context.Background(), "u-1", "new@example.com"); err != nil {
		t.Fatalf("UpdateEmail error: %v", err)
	}
}

func TestUpdateAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*email\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)`).
		WithArgs("u-1", "Bob", "new@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateAll(context.Background(), "u-1", "Bob", "new@example.com"); err != nil {
		t.Fatalf("UpdateAll error: %v", err)
	}
}
