package main

import (
	"github.com/spf13/cobra"
)

// --- 全局参数 ---
var (
	configPath string

	// migrate down
	rollbackSteps int

	// generate
	semesterID   string
	scheduleName string

	// token
	tokenRole string
	tokenDept string
	tokenTTL  string

	rootCmd = &cobra.Command{
		Use:           "schedctl",
		Short:         "课程排课服务命令行工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// --- 数据库迁移 ---
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "应用全部未执行的迁移",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp, // cmd_migrate.go
	}
	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "回滚最近的迁移",
		Args:  cobra.NoArgs,
		RunE:  runMigrateDown, // cmd_migrate.go
	}

	// --- 排课方案 ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "为学期生成新的排课方案",
		Args:  cobra.NoArgs,
		RunE:  runGenerate, // cmd_schedule.go
	}
	finalizeCmd = &cobra.Command{
		Use:   "finalize [schedule_id]",
		Short: "定稿排课方案（存在未解决冲突时失败）",
		Args:  cobra.ExactArgs(1),
		RunE:  runFinalize, // cmd_schedule.go
	}

	// --- 工具 ---
	tokenCmd = &cobra.Command{
		Use:   "token [user_id]",
		Short: "签发 Access Token（联调与运维使用）",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken, // cmd_token.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "回滚步数")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)

	generateCmd.Flags().StringVar(&semesterID, "semester", "", "学期 ID")
	generateCmd.Flags().StringVar(&scheduleName, "name", "", "方案名称")
	_ = generateCmd.MarkFlagRequired("semester")
	_ = generateCmd.MarkFlagRequired("name")

	tokenCmd.Flags().StringVar(&tokenRole, "role", "admin", "角色（admin / professor）")
	tokenCmd.Flags().StringVar(&tokenDept, "department", "", "院系 ID")
	tokenCmd.Flags().StringVar(&tokenTTL, "ttl", "", "有效期，如 1h（默认使用配置）")

	rootCmd.AddCommand(migrateCmd, generateCmd, finalizeCmd, tokenCmd)
}
