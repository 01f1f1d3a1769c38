package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"course-scheduler/backend/config"
	"course-scheduler/backend/pkg/jwt"
)

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if tokenTTL != "" {
		if ttl, err = time.ParseDuration(tokenTTL); err != nil {
			return fmt.Errorf("无效的有效期 %q: %w", tokenTTL, err)
		}
	}

	token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(args[0], tokenRole, tokenDept, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
