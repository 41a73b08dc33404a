package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kwargs/internal/key"
)

// KeyResult pairs a name with its hash.
type KeyResult struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "key <name>...",
		Short: "Print the hash of each name",
		Long: `Print the rolling hash each name is stored under.

With --fold, ASCII letters are folded to lower case before hashing, so
"Name" and "NAME" print the same key.

Examples:
  kwargs key name old data
  kwargs key --fold Name NAME`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(rootOpts, args, cmd)
		},
	}
}

func runKey(opts *RootOptions, names []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	results := make([]KeyResult, len(names))
	for i, name := range names {
		results[i] = KeyResult{Name: name, Key: key.Of(name, opts.Fold).String()}
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(formatter.Writer, "%s\t%s\n", r.Key, r.Name)
	}
	return nil
}
