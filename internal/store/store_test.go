package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BaSui01/genbridge/config"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/summary"
)

// =============================================================================
// 🧪 Store 测试
// =============================================================================

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", MaxOpenConns: 1}
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_SkipAutoMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", MaxOpenConns: 1, SkipAutoMigrate: true}
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.False(t, s.DB().Migrator().HasTable(&Job{}))
	require.NoError(t, s.Migrate(context.Background()))
	assert.True(t, s.DB().Migrator().HasTable(&Job{}))
	assert.True(t, s.DB().Migrator().HasTable(&Feedback{}))
}

func TestStore_JobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := jobs.Record{ID: "job-1", Provider: "thirdparty", Kind: "image", Prompt: "a cat", ModelID: "flux", ResultHref: "/v2/jobs/result/job-1"}
	require.NoError(t, s.Submitted(ctx, rec))

	job, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, JobSubmitted, job.Status)
	assert.Equal(t, "a cat", job.Prompt)
	assert.Nil(t, job.FinishedAt)
	assert.Nil(t, job.URLs())

	urls := []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}
	require.NoError(t, s.Finished(ctx, "job-1", urls, nil))

	job, err = s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, JobSucceeded, job.Status)
	assert.Equal(t, urls, job.URLs())
	assert.NotNil(t, job.FinishedAt)
}

func TestStore_JobFailedAndResubmitted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Submitted(ctx, jobs.Record{ID: "job-2", Provider: "firefly-video", Kind: "video"}))
	require.NoError(t, s.Finished(ctx, "job-2", nil, errors.New("Job polling timed out after 30 attempts")))

	job, err := s.GetJob(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, JobFailed, job.Status)
	assert.Contains(t, job.Error, "timed out")

	require.NoError(t, s.Submitted(ctx, jobs.Record{ID: "job-2", Provider: "firefly-video", Kind: "video", Prompt: "retry"}))
	job, err = s.GetJob(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, JobSubmitted, job.Status)
	assert.Equal(t, "retry", job.Prompt)
}

func TestStore_FinishedUnknownJob(t *testing.T) {
	s := openTestStore(t)

	err := s.Finished(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStore_ListJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Submitted(ctx, jobs.Record{ID: "a", Provider: "thirdparty"}))
	require.NoError(t, s.Submitted(ctx, jobs.Record{ID: "b", Provider: "firefly-video"}))
	require.NoError(t, s.Submitted(ctx, jobs.Record{ID: "c", Provider: "thirdparty"}))

	all, err := s.ListJobs(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tp, err := s.ListJobs(ctx, "thirdparty", 1)
	require.NoError(t, err)
	assert.Len(t, tp, 1)
	assert.Equal(t, "thirdparty", tp[0].Provider)
}

func TestStore_Feedback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.SaveFeedback(ctx, summary.Feedback{ArticleID: "print", Rating: summary.RatingUp, CreatedAt: now}))
	require.NoError(t, s.SaveFeedback(ctx, summary.Feedback{ArticleID: "print", QuestionID: "q2", Rating: summary.RatingDown, CreatedAt: now.Add(time.Second)}))
	require.NoError(t, s.SaveFeedback(ctx, summary.Feedback{ArticleID: "print", Rating: summary.RatingUp, CreatedAt: now.Add(2 * time.Second)}))
	require.NoError(t, s.SaveFeedback(ctx, summary.Feedback{ArticleID: "other", Rating: summary.RatingDown, CreatedAt: now}))

	list, err := s.ListFeedback(ctx, "print")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "q2", list[1].QuestionID)

	up, down, err := s.FeedbackCounts(ctx, "print")
	require.NoError(t, err)
	assert.Equal(t, int64(2), up)
	assert.Equal(t, int64(1), down)
}

func TestStore_SummarizerIntegration(t *testing.T) {
	s := openTestStore(t)
	sum := summary.NewSummarizer(nil, zap.NewNop(), summary.WithFeedbackStore(s))

	require.NoError(t, sum.RecordFeedback(context.Background(), summary.Feedback{ArticleID: "print", Rating: summary.RatingUp}))

	up, _, err := s.FeedbackCounts(context.Background(), "print")
	require.NoError(t, err)
	assert.Equal(t, int64(1), up)
}

func TestStore_PingAndStats(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, 1, s.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{"postgres", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := dialector(config.DatabaseConfig{Driver: tt.driver, Host: "localhost", Port: 1, Name: "x"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

// ===== 🧪 sqlmock（postgres 方言）=====

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *Store) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)
	return mock, New(gormDB, zap.NewNop())
}

func TestStore_FinishedPostgres(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "genbridge_jobs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Finished(context.Background(), "job-1", []string{"u"}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FinishedPostgresNoRows(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "genbridge_jobs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.Finished(context.Background(), "job-1", nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SubmittedPostgresError(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "genbridge_jobs"`)).
		WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	err := s.Submitted(context.Background(), jobs.Record{ID: "job-1"})
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
