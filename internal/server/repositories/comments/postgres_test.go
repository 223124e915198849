package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+comments\s*\(profile_id,\s*user_id,\s*content\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at$`
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("p-1", "u-1", "nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-1", now))

	got, err := repo.Create(context.Background(), &models.Comment{ProfileID: "p-1", UserID: "u-1", Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)

	mock.ExpectQuery(q).WillReturnError(errors.New("down"))
	_, err = repo.Create(context.Background(), &models.Comment{})
	assert.ErrorContains(t, err, "db error: down")
}

func TestListByProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+c\.id,.*FROM\s+comments\s+c\s+JOIN\s+users\s+u.*WHERE\s+c\.profile_id\s*=\s*\$1\s+ORDER\s+BY\s+c\.created_at\s+DESC\s+LIMIT\s+\$2\s+OFFSET\s+\$3$`
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("p-1", 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "user_id", "username", "content", "created_at"}).
			AddRow("c-2", "p-1", "u-2", "bob", "second", now).
			AddRow("c-1", "p-1", "u-1", "alice", "first", now.Add(-time.Minute)))

	got, err := repo.ListByProfile(context.Background(), "p-1", 10, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].UserName)
	assert.Equal(t, "first", got[1].Content)

	mock.ExpectQuery(q).WillReturnError(errors.New("down"))
	_, err = repo.ListByProfile(context.Background(), "p-1", 10, 0)
	assert.Error(t, err)
}

func TestCountByProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^SELECT\s+COUNT\(\*\)\s+FROM\s+comments\s+WHERE\s+profile_id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("p-1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountByProfile(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	mock.ExpectQuery(q).WillReturnError(errors.New("down"))
	_, err = repo.CountByProfile(context.Background(), "p-1")
	assert.Error(t, err)
}
