package command

// config.go loads optional CLI settings. Precedence: flag, STORYHUB_* env,
// config file, then the URL saved at login.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string // config file path
	settings = viper.New()
)

func initConfig() error {
	if cfgFile != "" {
		settings.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			settings.AddConfigPath(filepath.Join(home, ".storyhub"))
		}
		settings.SetConfigName("config")
		settings.SetConfigType("yaml")
	}

	settings.SetEnvPrefix("STORYHUB")
	settings.AutomaticEnv()
	if err := settings.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api")); err != nil {
		return err
	}

	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		// an explicit --config that does not exist is an error; a missing default is not
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", settings.ConfigFileUsed(), err)
	}
	return nil
}

// resolveAPIURL picks the API URL. stored is the URL remembered at login.
func resolveAPIURL(stored string) string {
	if settings.IsSet("api") {
		return settings.GetString("api")
	}
	if stored != "" {
		return stored
	}
	return defaultAPIURL
}

// defaultLang is the title language used when --lang is not given.
func defaultLang(cmd *cobra.Command) string {
	if cmd.Flags().Changed("lang") {
		lang, _ := cmd.Flags().GetString("lang")
		return lang
	}
	return settings.GetString("lang")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective CLI settings",
	Run: func(cmd *cobra.Command, args []string) {
		file := settings.ConfigFileUsed()
		if file == "" {
			file = "(none)"
		}
		printField("Config file", file)
		printField("API", settings.GetString("api"))
		printField("Title language", settings.GetString("lang"))
	},
}
