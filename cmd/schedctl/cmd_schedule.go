package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-scheduler/backend/config"
	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/repository"
	"course-scheduler/backend/internal/service"
	"course-scheduler/backend/pkg/database"
	applogger "course-scheduler/backend/pkg/logger"
	"course-scheduler/backend/pkg/redis"
)

// cliOperator 命令行操作写入审计字段时使用的操作人
const cliOperator = "schedctl"

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	svc    *service.Service
}

// bootstrap 加载配置并连接数据库；withServices 为 true 时同时装配 Service
func bootstrap(withServices bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log, "schedctl")
	if err != nil {
		return nil, err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, db: db}
	if !withServices {
		return a, nil
	}

	if cfg.Redis.Enabled {
		if a.rdb, err = redis.NewClient(&cfg.Redis, logger); err != nil {
			logger.Warn("Redis 连接失败，仅依赖乐观锁", zap.Error(err))
			a.rdb = nil
		}
	}
	a.svc = service.NewService(cfg, repository.NewRepository(db), a.rdb, logger)
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	_ = a.logger.Sync()
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.svc.Schedule.Generate(cmd.Context(), &dto.GenerateScheduleRequest{
		SemesterID: semesterID,
		Name:       scheduleName,
	}, cliOperator)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "方案 %s：落位 %d，未落位 %d，冲突 %d\n",
		result.Schedule.ID, result.PlacedCount, result.UnplacedCount, len(result.Conflicts))
	return printJSON(result)
}

func runFinalize(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	final := true
	schedule, err := a.svc.Schedule.Update(cmd.Context(), args[0], &dto.UpdateScheduleRequest{IsFinal: &final}, cliOperator)
	if err != nil {
		return err
	}
	return printJSON(schedule)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
