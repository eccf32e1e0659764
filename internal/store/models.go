package store

import (
	"encoding/json"
	"time"
)

// JobStatus 任务状态
type JobStatus string

const (
	JobSubmitted JobStatus = "submitted"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job 异步生成任务
type Job struct {
	ID         string     `gorm:"primaryKey;size:128" json:"id"`
	Provider   string     `gorm:"size:64;index" json:"provider"`
	Kind       string     `gorm:"size:32" json:"kind"`
	Prompt     string     `gorm:"type:text" json:"prompt,omitempty"`
	ModelID    string     `gorm:"size:128" json:"modelId,omitempty"`
	ResultHref string     `gorm:"size:1024" json:"resultHref,omitempty"`
	Status     JobStatus  `gorm:"size:16;index" json:"status"`
	OutputURLs string     `gorm:"column:output_urls;type:text" json:"-"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

func (Job) TableName() string { return "genbridge_jobs" }

// URLs 解码输出地址列表
func (j *Job) URLs() []string {
	if j.OutputURLs == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(j.OutputURLs), &out); err != nil {
		return nil
	}
	return out
}

// Feedback 摘要反馈
type Feedback struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ArticleID  string    `gorm:"size:128;index"`
	QuestionID string    `gorm:"size:128"`
	SessionID  string    `gorm:"size:64"`
	Rating     string    `gorm:"size:8"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

func (Feedback) TableName() string { return "genbridge_feedback" }
