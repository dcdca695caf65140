package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storyhub/cmd/cli/authentication"
)

// auth.go handles token storage. Tokens are issued by the identity service
// (or `engagement-admin token` in development) and pasted in here.

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		accessToken, _ := cmd.Flags().GetString("token")
		accessToken = strings.TrimSpace(accessToken)
		if accessToken == "" {
			return fmt.Errorf("--token must not be empty")
		}

		target := settings.GetString("api")
		creds := &authentication.StoredCredentials{
			AccessToken: accessToken,
			APIURL:      target,
			SavedAt:     time.Now().Unix(),
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("save token: %w", err)
		}

		printSuccess("Token saved for %s", target)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("remove token: %w", err)
		}
		printSuccess("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("token", "t", "", "JWT access token")
	_ = loginCmd.MarkFlagRequired("token")
}
