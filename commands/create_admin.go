package commands

import (
	"errors"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account directly in the database. Unlike the setup
endpoint this works when admins already exist and needs no setup key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminPassword == "" {
			return errors.New("--username and --password are required")
		}

		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		service := auth.NewService(db.AdminRepo(), nil, auth.NewHasher(cfg.BcryptCost), cfg.AdminKey)
		id, err := service.CreateAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		log.Info().Uint("adminId", id.ID).Str("username", id.Username).Msg("Admin created")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (at least 6 characters)")
	rootCmd.AddCommand(createAdminCmd)
}
