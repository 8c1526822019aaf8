package main

import (
	"context"
	"errors"
	"fmt"

	"condo-backend/internal/auth"
	"condo-backend/internal/db"
	"condo-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("profile", "", "Profile id to issue the token for")
	tokenCmd.MarkFlagRequired("profile")
}

// tokenCmd issues a bearer token for an existing profile. Logins happen in
// the identity provider; this is for operators and local development.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed access token for a profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, _ := cmd.Flags().GetString("profile")
		profileID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --profile: %w", err)
		}

		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return errors.New("jwt.secret (JWT_SECRET) is required")
		}

		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		profile, err := repositories.NewProfileRepository(pool).GetAny(ctx, profileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("profile %s not found", profileID)
		}

		token, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours).GenerateToken(profile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
