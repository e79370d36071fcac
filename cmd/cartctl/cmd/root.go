package cmd

import (
	"fmt"
	"os"

	"github.com/cartcompare/backend/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cartctl",
	Short: "Compare grocery prices across supermarkets from the command line.",
	Long: `cartctl prices a shopping list in every configured supermarket catalog
and prints the ranked store carts as JSON.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./config.yaml, ./config/config.yaml, /etc/cartcompare/)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error")
}

func loadConfig() (*config.Config, error) {
	return config.LoadFrom(cfgFile)
}
