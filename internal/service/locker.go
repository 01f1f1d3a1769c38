package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	pkgerrors "course-scheduler/backend/pkg/errors"
	"course-scheduler/backend/pkg/redis"
)

// ScheduleLocker 排课方案级互斥
// 生成、覆盖、撤销、定稿、删除前加锁，被占用时返回 ErrLocked
type ScheduleLocker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// NewScheduleLocker rdb 为 nil 时返回空实现（仅依赖乐观锁）
func NewScheduleLocker(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) ScheduleLocker {
	if rdb == nil {
		return noopLocker{}
	}
	return &redisLocker{rdb: rdb, ttl: ttl, logger: logger}
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

type redisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func (l *redisLocker) Lock(ctx context.Context, name string) (func(), error) {
	lock, ok, err := l.rdb.AcquireLock(ctx, name, l.ttl)
	if err != nil {
		// Redis 出错时降级，仍由版本号兜底
		l.logger.Warn("获取排课锁失败，降级执行", zap.String("lock", name), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, pkgerrors.ErrLocked
	}
	return func() {
		// 请求 ctx 可能已取消，释放使用独立超时
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			l.logger.Warn("释放排课锁失败", zap.String("lock", name), zap.Error(err))
		}
	}, nil
}

func scheduleLockName(scheduleID string) string {
	return scheduleID
}

func semesterLockName(semesterID string) string {
	return "semester:" + semesterID
}
