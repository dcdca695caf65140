package command

// root.go defines the root command for the storyhub CLI application.
// set up the global flags here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storyhub/cmd/cli/authentication"
	"storyhub/cmd/cli/command/client"
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storyhub",
	Short: "storyhub - StoryHub reader engagement CLI",
	Long: `storyhub is a command line client for the StoryHub engagement API.
Use it to:
- Record and review reading progress
- Rate stories and browse ratings
- Toggle bookmarks
- Inspect reading streaks and analytics

Use "storyhub [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().String("api", defaultAPIURL, "API server URL (env STORYHUB_API)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.storyhub/config.yaml)")

	rootCmd.AddCommand(loginCmd, logoutCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(ratingCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(configCmd)
}

// GetAuthenticatedClient builds an HTTP client carrying the stored token.
// The API URL saved at login is used unless one is configured explicitly.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}

	target := resolveAPIURL(creds.APIURL)
	if target == "" {
		return nil, fmt.Errorf("no API URL configured")
	}

	httpClient := client.NewHTTPClient(target)
	httpClient.SetToken(creds.AccessToken)
	return httpClient, nil
}
