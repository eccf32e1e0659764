package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BaSui01/genbridge/config"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/summary"
)

var (
	_ jobs.Ledger           = (*Store)(nil)
	_ summary.FeedbackStore = (*Store)(nil)
)

// =============================================================================
// 🗄️ 任务与反馈台账
// =============================================================================

// Store GORM 台账
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// dialector 根据驱动名创建 GORM Dialector
func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	case "sqlite3":
		return cgosqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql, sqlite, sqlite3)", cfg.Driver)
	}
}

// Open 打开数据库、配置连接池并迁移表结构
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{Logger: newZapLogger(logger.With(zap.String("component", "gorm")))})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := New(db, logger)
	if !cfg.SkipAutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	s.logger.Info("database connected", zap.String("driver", cfg.Driver))
	return s, nil
}

// New 包装已打开的 GORM 连接，不做迁移
func New(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger.With(zap.String("component", "store"))}
}

// Migrate 自动迁移表结构
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Job{}, &Feedback{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DB 返回 GORM 实例
func (s *Store) DB() *gorm.DB { return s.db }

// =============================================================================
// 📋 jobs.Ledger
// =============================================================================

// Submitted 记录一次任务提交，重复提交同一 ID 时覆盖
func (s *Store) Submitted(ctx context.Context, rec jobs.Record) error {
	job := Job{
		ID:         rec.ID,
		Provider:   rec.Provider,
		Kind:       rec.Kind,
		Prompt:     rec.Prompt,
		ModelID:    rec.ModelID,
		ResultHref: rec.ResultHref,
		Status:     JobSubmitted,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider", "kind", "prompt", "model_id", "result_href", "status", "updated_at",
		}),
	}).Create(&job).Error
	if err != nil {
		return fmt.Errorf("record job %q: %w", rec.ID, err)
	}
	return nil
}

// Finished 更新任务终态，jobErr 非空时记为失败
func (s *Store) Finished(ctx context.Context, id string, outputURLs []string, jobErr error) error {
	status := JobSucceeded
	errText := ""
	if jobErr != nil {
		status = JobFailed
		errText = jobErr.Error()
	}

	urls := ""
	if len(outputURLs) > 0 {
		b, err := json.Marshal(outputURLs)
		if err != nil {
			return fmt.Errorf("encode output urls: %w", err)
		}
		urls = string(b)
	}

	res := s.db.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":      status,
		"output_urls": urls,
		"error":       errText,
		"finished_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("finish job %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("finish job %q: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetJob 按 ID 查询任务
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get job %q: %w", id, err)
	}
	return &job, nil
}

// ListJobs 按创建时间倒序列出任务，provider 为空时不过滤
func (s *Store) ListJobs(ctx context.Context, provider string, limit int) ([]Job, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if provider != "" {
		q = q.Where("provider = ?", provider)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Job
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// =============================================================================
// 👍 summary.FeedbackStore
// =============================================================================

// SaveFeedback 保存一条反馈
func (s *Store) SaveFeedback(ctx context.Context, fb summary.Feedback) error {
	row := Feedback{
		ID:         uuid.NewString(),
		ArticleID:  fb.ArticleID,
		QuestionID: fb.QuestionID,
		SessionID:  fb.SessionID,
		Rating:     string(fb.Rating),
		Comment:    fb.Comment,
		CreatedAt:  fb.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// ListFeedback 返回某篇文章的反馈，按时间正序
func (s *Store) ListFeedback(ctx context.Context, articleID string) ([]summary.Feedback, error) {
	var rows []Feedback
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	out := make([]summary.Feedback, len(rows))
	for i, r := range rows {
		out[i] = summary.Feedback{
			ArticleID:  r.ArticleID,
			QuestionID: r.QuestionID,
			SessionID:  r.SessionID,
			Rating:     summary.Rating(r.Rating),
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

// FeedbackCounts 统计点赞与点踩数量
func (s *Store) FeedbackCounts(ctx context.Context, articleID string) (up, down int64, err error) {
	var rows []struct {
		Rating string
		N      int64
	}
	err = s.db.WithContext(ctx).Model(&Feedback{}).
		Select("rating, count(*) as n").
		Where("article_id = ?", articleID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("count feedback: %w", err)
	}
	for _, r := range rows {
		switch summary.Rating(r.Rating) {
		case summary.RatingUp:
			up = r.N
		case summary.RatingDown:
			down = r.N
		}
	}
	return up, down, nil
}

// =============================================================================
// 🔧 连接管理
// =============================================================================

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats 返回连接池统计
func (s *Store) Stats() sql.DBStats {
	sqlDB, err := s.db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
