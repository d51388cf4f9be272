package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestSave(t *testing.T) {
	s, mock := newMock(t)
	created := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO copy_history`)).
		WithArgs("rec-1", "user-1", "Spa Night", "minimal", "Minimal & Clean",
			`{"title":"T","pitch":"P","bullets":["a"],"instagram":"I"}`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Save(context.Background(), &domain.HistoryRecord{
		ID:         "rec-1",
		UserID:     "user-1",
		BundleName: "Spa Night",
		Tone:       domain.ToneMinimal,
		ToneLabel:  "Minimal & Clean",
		Copy:       domain.GeneratedCopy{Title: "T", Pitch: "P", Bullets: []string{"a"}, Instagram: "I"},
		CreatedAt:  created,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO copy_history`)).WillReturnError(errors.New("boom"))

	err := s.Save(context.Background(), &domain.HistoryRecord{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestList(t *testing.T) {
	s, mock := newMock(t)
	t1 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "user_id", "bundle_name", "tone", "tone_label", "copy", "created_at"}).
		AddRow("b", "user-1", "Two", "playful", "Playful & Fun", []byte(`{"title":"t2","pitch":"p","bullets":["x","y"],"instagram":"i"}`), t1).
		AddRow("a", "user-1", "One", "warm", "Warm & Friendly", []byte(`{"title":"t1","pitch":"p","instagram":"i"}`), t0)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM copy_history`)).
		WithArgs("user-1", 2).
		WillReturnRows(rows)

	got, err := s.List(context.Background(), "user-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, domain.TonePlayful, got[0].Tone)
	assert.Equal(t, []string{"x", "y"}, got[0].Copy.Bullets)
	assert.Equal(t, []string{}, got[1].Copy.Bullets)
	assert.Equal(t, t0, got[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_BadCopy(t *testing.T) {
	s, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "bundle_name", "tone", "tone_label", "copy", "created_at"}).
		AddRow("a", "u", "n", "warm", "", []byte(`{oops`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM copy_history`)).WillReturnRows(rows)

	_, err := s.List(context.Background(), "u", 5)
	require.Error(t, err)
}

func TestList_NonPositiveLimit(t *testing.T) {
	s, mock := newMock(t)
	got, err := s.List(context.Background(), "u", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM copy_history WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := s.Count(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMigrate(t *testing.T) {
	s, _ := newMock(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, s.Migrate(context.Background()))
	assert.Equal(t, "migrations", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("locked")
	}
	err := s.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migrations")
}

func TestMigrationsEmbedded(t *testing.T) {
	data, err := migrations.ReadFile("migrations/00001_create_copy_history.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS copy_history")
}
