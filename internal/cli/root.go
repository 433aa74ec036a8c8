package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danieljhkim/pllr/internal/engine"
	"github.com/danieljhkim/pllr/internal/manifest"
)

var (
	// Global flags
	verbose bool

	logger *zap.Logger

	// Colors for help output sections
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the only pllr command.
var rootCmd = &cobra.Command{
	Use:     "pllr <directory_path>",
	Version: "dev",
	Short:   "Fetch, build and place external assets into a project",
	Long: `pllr reads ` + manifest.FileName + ` from the given directory and, for every item,
runs its get command in a fresh temporary directory, optionally builds it, and
copies the listed assets into the project. Children run after their parent and
place their assets relative to the parent's destination.`,
	Args:          exactlyOneDirectory,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPllr,
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func exactlyOneDirectory(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("%w: %w (usage: %s)", engine.ErrUsage, err, cmd.UseLine())
	}
	return nil
}

// customHelpFunc renders help with colored section titles.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	help.WriteString(sectionTitleColor.Sprint("Arguments:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %-16s %s\n\n", "directory_path", "Directory containing "+manifest.FileName+"; assets are placed relative to it")

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", engine.ErrUsage, err)
	})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step (workspaces, commands, copies) to stderr")
}

// Execute executes the root command. SIGINT and SIGTERM cancel the run; the
// engine still removes every temporary directory it created.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
