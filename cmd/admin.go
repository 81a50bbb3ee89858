package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/api"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
	adminUserID   string
	adminForce    bool
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "create or reset an admin API login",
	Long:  "create-admin stores a bcrypt hashed login for the admin API and grants the admin role. The password may also come from BUCKSY_ADMIN_PASSWORD.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if adminPassword == "" {
			adminPassword = os.Getenv("BUCKSY_ADMIN_PASSWORD")
		}

		ctx := cmd.Context()
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		return createAdmin(ctx, repositories.NewAdminRepository(db), adminUsername, adminPassword, adminUserID, adminForce)
	},
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "admin", "login name")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "login password")
	createAdminCmd.Flags().StringVar(&adminUserID, "user-id", "", "discord user id the login belongs to")
	createAdminCmd.Flags().BoolVar(&adminForce, "force", false, "reset the password of an existing login")
	_ = createAdminCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(createAdminCmd)
}

func createAdmin(ctx context.Context, admins repositories.AdminRepository, username, password, userID string, force bool) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	if len(password) < api.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", api.MinPasswordLength)
	}
	if _, err := snowflake.Parse(userID); err != nil {
		return fmt.Errorf("user id %q is not a discord id", userID)
	}

	existing, err := admins.FindByUsername(ctx, username)
	switch {
	case err == nil && !force:
		return fmt.Errorf("admin %q already exists, pass --force to reset it", username)
	case err == nil && existing.ID != userID:
		return fmt.Errorf("admin %q belongs to user %s", username, existing.ID)
	case err != nil && !errors.Is(err, database.ErrNotFound):
		return err
	}

	hash, err := api.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err = admins.SetCredentials(ctx, userID, username, hash); err != nil {
		return err
	}
	slog.Info("Admin login saved",
		slog.String("type", "db"),
		slog.String("user_id", userID),
		slog.String("user_name", username))
	return nil
}
