package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/family_bank/internal/utils"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringP("user", "u", "", "User id to put in the token subject")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local testing",
	Long: `Sign a token with JWT_SECRET and JWT_ISSUER so the API can be called
locally without the identity provider. Refuses to run when IS_PRODUCTION is set.`,
	RunE: runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.IsProduction {
		return fmt.Errorf("refusing to mint tokens in production")
	}

	token, err := utils.GenerateJWT(userID, cfg.JWTSecret, ttl, cfg.JWTIssuer)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
