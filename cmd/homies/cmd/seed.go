package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homies-events/server/internal/auth"
	"github.com/homies-events/server/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	seedUsername string
	seedEmail    string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a user account",
	Long: `Create a user account directly in the database.

Intended for bootstrapping a fresh deployment or a development database.
Creating an existing username is a no-op.

Example:
  homies seed --username alice --email alice@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedUsername == "" || seedEmail == "" || seedPassword == "" {
			return fmt.Errorf("--username, --email, and --password are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		created, err := seedUser(ctx, cfg, seedUsername, seedEmail, seedPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", seedUsername)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", seedUsername)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUsername, "username", "", "username for the new account")
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "email for the new account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for the new account")
}

func seedUser(ctx context.Context, cfg config.Config, username, email, password string) (bool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return false, fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	const checkQuery = `SELECT id FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	var existingID string
	if err := pool.QueryRow(ctx, checkQuery, username, email).Scan(&existingID); err == nil {
		return false, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("check user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	const insertQuery = `
INSERT INTO users (id, username, email, password_hash, created_at)
VALUES (gen_random_uuid(), $1, $2, $3, now())`
	if _, err := pool.Exec(ctx, insertQuery, username, email, hash); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
