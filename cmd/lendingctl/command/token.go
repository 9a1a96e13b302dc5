package command

import (
	"fmt"
	"time"

	"lendinghub/internal/microservices/http-api/middleware"
	"lendinghub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token [user_id]",
	Short: "Issue an API token for a user",
	Long: `Sign a bearer token with JWT_SECRET. Accounts live outside the lending core,
this is for desk terminals and testing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := uuid.Parse(args[0]); err != nil {
			return fmt.Errorf("user id must be a uuid: %w", err)
		}
		if tokenRole != models.RoleMember && tokenRole != models.RoleLibrarian {
			return fmt.Errorf("role must be %s or %s", models.RoleMember, models.RoleLibrarian)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		token, err := middleware.NewToken(cfg.JWTSecret, args[0], tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", models.RoleMember, "member or librarian")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
