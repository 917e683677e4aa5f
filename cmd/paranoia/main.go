package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paranoia/cmd/paranoia/ui"
	"paranoia/internal/logging"
)

var (
	// Global flags
	verbose   bool
	logFormat string

	logger *zap.Logger
	styles = ui.DefaultStyles()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "paranoia",
	Short: "Organize and print secret cards for a game of Paranoia",
	Long: `Paranoia deals every player a secret target and a set of secret attributes.

Put a paranoia.yml and one <field>.txt value list per field in a directory,
run "paranoia organize" once, then "paranoia print" to get the cards as a PDF.
Nobody, including the organizer, needs to see who targets whom.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, Format: logFormat})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log encoding: console or json")

	organizeCmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing organization")
	organizeCmd.Flags().BoolVar(&printTable, "print-table", false, "Show the full organization after asking for confirmation")
	organizeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before showing the table")

	printCmd.Flags().IntSliceVar(&only, "only", nil, "Print only the cards with these serial numbers (e.g. 1,4,7)")
	printCmd.Flags().StringVarP(&output, "output", "o", "", "PDF path (default <root_dir>/output.pdf)")
	printCmd.Flags().BoolVar(&watchFlag, "watch", false, "Print again whenever paranoia.yml or the organization changes")

	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(printCmd)
}

// rootDir resolves the optional root_dir argument.
func rootDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root directory %s is not a directory", dir)
	}
	return filepath.Abs(dir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err))
		os.Exit(2)
	}
}
