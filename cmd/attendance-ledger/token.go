package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.IsProduction() {
				return fmt.Errorf("token issuing is disabled when APP_ENV=production")
			}

			jwtSvc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
			if err != nil {
				return err
			}

			token, expiresAt, err := jwtSvc.GenerateAccessToken(userID, jwt.Role(role))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			logger.Info("Access token issued",
				zap.String("user_id", userID),
				zap.String("role", role),
				zap.Time("expires_at", time.Unix(expiresAt, 0)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	cmd.Flags().StringVarP(&role, "role", "r", string(jwt.RoleEmployee), "Role: employee, manager or admin")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
