package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Policy 定义重试策略配置
// 延迟公式: min(BaseDelay * 2^attempt + jitter, MaxDelay)，jitter ∈ [0, MaxJitter)
type Policy struct {
	MaxRetries int                                               // 最大重试次数（0 表示不重试）
	BaseDelay  time.Duration                                     // 第 0 次重试前的基础延迟
	MaxDelay   time.Duration                                     // 延迟上限（含抖动）
	MaxJitter  time.Duration                                     // 抖动上限（每次重新抽取）
	OnRetry    func(attempt int, err error, delay time.Duration) // 重试回调
}

// DefaultPolicy 返回 API 客户端使用的默认重试策略
func DefaultPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Second,
		MaxDelay:   8 * time.Second,
		MaxJitter:  time.Second,
	}
}

// SleepFunc 等待 d，context 取消时提前返回错误
type SleepFunc func(ctx context.Context, d time.Duration) error

// JitterFunc 返回 [0, max) 范围内的随机抖动
type JitterFunc func(max time.Duration) time.Duration

// Sleep 是基于定时器的默认 SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoSleep 立即返回，测试中用于替代真实等待
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// RandomJitter 是默认 JitterFunc
func RandomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

// Retryer 按策略执行有界重试循环
type Retryer struct {
	policy Policy
	sleep  SleepFunc
	jitter JitterFunc
	logger *zap.Logger
}

// Option 配置 Retryer
type Option func(*Retryer)

// WithSleep 替换等待函数
func WithSleep(fn SleepFunc) Option {
	return func(r *Retryer) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// WithJitter 替换抖动函数
func WithJitter(fn JitterFunc) Option {
	return func(r *Retryer) {
		if fn != nil {
			r.jitter = fn
		}
	}
}

// New 创建重试器
func New(policy Policy, logger *zap.Logger, opts ...Option) *Retryer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = 0
	}
	if policy.MaxJitter < 0 {
		policy.MaxJitter = 0
	}

	r := &Retryer{
		policy: policy,
		sleep:  Sleep,
		jitter: RandomJitter,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy 返回生效的策略
func (r *Retryer) Policy() Policy {
	return r.policy
}

// Delay 计算第 attempt 次失败后的等待时间（attempt 从 0 开始）
func (r *Retryer) Delay(attempt int) time.Duration {
	return r.delay(attempt, r.jitter(r.policy.MaxJitter))
}

func (r *Retryer) delay(attempt int, jitter time.Duration) time.Duration {
	d := float64(r.policy.BaseDelay)*math.Pow(2, float64(attempt)) + float64(jitter)
	if r.policy.MaxDelay > 0 && d > float64(r.policy.MaxDelay) {
		return r.policy.MaxDelay
	}
	if d > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Do 执行 fn，失败时按策略重试；重试耗尽后原样返回最后一次错误
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	_, err := DoWithResult(ctx, r, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, fn(ctx, attempt)
	})
	return err
}

// DoWithResult 是 Do 的泛型版本
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx, attempt)
		if err == nil {
			if attempt > 0 {
				r.logger.Debug("retry succeeded", zap.Int("attempt", attempt))
			}
			return result, nil
		}

		if attempt >= r.policy.MaxRetries {
			if r.policy.MaxRetries > 0 {
				r.logger.Warn("retries exhausted",
					zap.Int("attempts", attempt+1),
					zap.Error(err),
				)
			}
			return zero, err
		}

		delay := r.Delay(attempt)
		r.logger.Debug("retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", r.policy.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt, err, delay)
		}

		if serr := r.sleep(ctx, delay); serr != nil {
			return zero, fmt.Errorf("retry canceled after attempt %d: %w", attempt, serr)
		}
	}
}
