package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger = zap.NewNop()
)

const version = "1.2.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "coagen",
	Short: "coagen - Certificate of Analysis generator",
	Long: `coagen fills DOCX Certificate of Analysis templates with lab values.

Templates carry {{KEY}} placeholders (date, batch labels, moisture,
viscosity, pH and, for FAR-grade certificates, mesh, bulk density and
Fann readings). coagen substitutes them while keeping every run style,
table and header/footer of the template intact, even when an editor has
split a placeholder across runs or mangled its braces into parentheses.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the coagen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coagen %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default coagen.yaml if present)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
