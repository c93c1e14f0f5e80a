package main

import (
	"fmt"
	"os"

	"contacts-manager/config"
	"contacts-manager/internal/utils"

	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	dataDir  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage a personal contact list backed by JSON files",
	Long: `contacts imports a phone address-book export (.vcf) into a JSON contact
list and serves it over HTTP.

Configuration is read from the environment (CONTACTS_*, LOG_*, S3_*).
Flags given on the command line take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if dataDir != "" {
			loaded.DataDir = dataDir
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		if err := utils.ConfigureLogger(loaded.LogLevel, loaded.LogJSON); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		utils.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding the data files (default: CONTACTS_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
}

// @title Contacts Manager API
// @version 1.0
// @description Browse, edit, categorize and export a personal contact list imported from a vCard file
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
