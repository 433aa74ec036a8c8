package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pllr/internal/engine"
)

// runPllr processes the manifest in the directory given as the only argument.
func runPllr(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	eng := newEngine(logger, newConsoleReporter(out))

	result, err := eng.Run(cmd.Context(), &engine.RunRequest{Dir: args[0]})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	PrintSuccess(out, fmt.Sprintf("Processed %s in %s",
		PrintCount(len(result.Items), "item", "items"),
		result.Duration.Round(time.Millisecond)))
	PrintLabelValue(out, "Copied", PrintCount(result.Copied(), "asset", "assets"))
	if n := result.Skipped(); n > 0 {
		PrintLabelValue(out, "Skipped", PrintCount(n, "asset", "assets"))
	}
	if n := result.Missing(); n > 0 {
		PrintLabelValue(out, "Missing", PrintCount(n, "asset", "assets"))
	}
	return nil
}
