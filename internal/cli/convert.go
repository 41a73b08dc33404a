package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/kwargs/internal/value"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To string // target type name
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <text>",
		Short: "Convert text to a type",
		Long: `Box text as a literal and convert it to the type named by --to.

Type names are bool, the sized int/uint/float names, string, byte, rune,
char, bytes, any, uuid, and the composites []T, [N]T, map[K]V and *T.

Examples:
  kwargs convert 1314.520 --to int
  kwargs convert --to int8 -- -0x1f
  kwargs convert max --to uint16`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "string", "target type name")

	return cmd
}

func runConvert(opts *ConvertOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	t, err := value.TypeByName(opts.To)
	if err != nil {
		return formatter.Fail("unknown type", err)
	}

	s := value.Literal(text)
	defer s.Release()

	v, err := s.ConvertTo(t)
	if err != nil {
		return formatter.Fail("conversion failed", err)
	}
	opts.Logger().Debug("converted", "input", text, "to", opts.To)
	return formatter.Success(ValueResult{Type: opts.To, Value: render(v)})
}
