package main

import (
	"context"
	"errors"
	"fmt"

	"condo-backend/internal/auth"
	"condo-backend/internal/db"
	"condo-backend/internal/models"
	"condo-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

// domainTables lists every table reset clears, children first.
var domainTables = []string{
	"payment_allocations",
	"notifications",
	"payment_reports",
	"ledger_entries",
	"tickets",
	"announcements",
	"exchange_rates",
	"properties",
	"profiles",
	"condominiums",
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(seedCmd)

	resetCmd.Flags().Bool("yes", false, "Confirm that all data will be deleted")

	seedCmd.Flags().String("name", "", "Condominium name")
	seedCmd.Flags().String("admin", "Administrator", "First name of the admin profile")
	seedCmd.Flags().Int64("monthly-cents", 0, "Monthly fee in cents")
	seedCmd.MarkFlagRequired("name")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data (test environments only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to reset without --yes")
		}
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			for _, table := range domainTables {
				if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
					return fmt.Errorf("failed to truncate %s: %w", table, err)
				}
				logger.Infof("[Reset] cleared %s", table)
			}
			return nil
		})
	},
}

// seedCmd creates a condominium with its first admin profile and prints a
// token for it, so a fresh database can be driven through the API.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a condominium and its first admin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		adminName, _ := cmd.Flags().GetString("admin")
		monthly, _ := cmd.Flags().GetInt64("monthly-cents")

		cfg, logger, err := bootstrap()
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

		condo := &models.Condominium{Name: name, MonthlyAmount: models.Cents(monthly)}
		if err := repositories.NewCondominiumRepository(pool).Create(ctx, condo); err != nil {
			return err
		}
		admin := &models.Profile{CondominiumID: condo.ID, FirstName: adminName, Role: models.RoleAdmin}
		if err := repositories.NewProfileRepository(pool).Create(ctx, admin); err != nil {
			return err
		}
		logger.WithField("condominium_id", condo.ID).Info("[Seed] condominium created")

		token, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours).GenerateToken(admin)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "condominium: %s\nadmin:       %s\ntoken:       %s\n", condo.ID, admin.ID, token)
		return nil
	},
}
