package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("SCHED_AUTH_JWT_SECRET", "unit-test-secret-0123456789")
	t.Setenv("SCHED_SCHEDULER_DURATION_TOLERANCE_MINUTES", "5")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 9090\nscheduler:\n  core_first: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Scheduler.CoreFirst {
		t.Error("配置文件应覆盖 core_first 默认值")
	}
	if cfg.Scheduler.DurationToleranceMinutes != 5 {
		t.Errorf("环境变量应覆盖容差，实际=%d", cfg.Scheduler.DurationToleranceMinutes)
	}
	if !cfg.Scheduler.ExclusiveSlots {
		t.Error("exclusive_slots 默认应为 true")
	}
	if cfg.Scheduler.LockTTL != 30*time.Second {
		t.Errorf("期望 lock_ttl=30s，实际=%s", cfg.Scheduler.LockTTL)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8080},
		Auth:      AuthConfig{JWTSecret: "short"},
		Scheduler: SchedulerConfig{LockTTL: time.Second},
		RateLimit: RateLimitConfig{Requests: 1, Window: time.Second},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("过短的 jwt_secret 应校验失败")
	}
}

func TestValidate_NegativeTolerance(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8080},
		Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
		Scheduler: SchedulerConfig{DurationToleranceMinutes: -1, LockTTL: time.Second},
		RateLimit: RateLimitConfig{Requests: 1, Window: time.Second},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("负数容差应校验失败")
	}
}
