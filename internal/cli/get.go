package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kwargs/internal/source"
	"github.com/roach88/kwargs/internal/value"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	As         string   // target type name
	Defaults   []string // values used when no name matches
	Schema     string   // CUE file supplying the key whitelist
	SchemaPath string   // path of the struct inside the CUE file
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <file> <name>[,alternate...]",
		Short: "Read one value from a record",
		Long: `Load a record from a YAML, JSON or TOML file and read one value.

Names separated by commas are tried in order and the first one present
wins. When none is present the --default values are converted instead:
one default is converted directly, several are converted as a list.

With --schema, the record must only use the keys of the CUE struct at
--schema-path.

Exit codes:
  0 - Value converted
  1 - Conversion or record construction failed
  2 - Command error (unreadable file, bad type name, etc.)

Examples:
  kwargs get args.yaml old --as int
  kwargs get args.yaml class,klass --as string --default EmptyClass
  kwargs get args.toml name --schema args.cue --schema-path '#Args'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "string", "target type name")
	cmd.Flags().StringArrayVar(&opts.Defaults, "default", nil, "default value (repeatable)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema file")
	cmd.Flags().StringVar(&opts.SchemaPath, "schema-path", "", "path of the record struct in the schema")

	return cmd
}

func runGet(opts *GetOptions, file, names string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	t, err := value.TypeByName(opts.As)
	if err != nil {
		return formatter.Fail("unknown type", err)
	}

	loadOpts := source.Options{Fold: opts.Fold, Logger: opts.Logger()}
	if opts.Schema != "" {
		sh, err := source.LoadShape(opts.Schema, opts.SchemaPath, opts.Fold)
		if err != nil {
			return formatter.Fail("loading schema", err)
		}
		formatter.VerboseLog("Schema allows %d key(s)", len(sh.Names()))
		loadOpts.Shape = sh
	}

	rec, err := source.LoadRecord(file, loadOpts)
	if err != nil {
		return formatter.Fail("loading record", err)
	}
	defer rec.Release()
	formatter.VerboseLog("Loaded %d entr(ies) from %s", rec.Len(), file)

	item := rec.LookupName(strings.Split(names, ",")...)
	defaults := make([]any, len(opts.Defaults))
	for i, d := range opts.Defaults {
		defaults[i] = d
	}

	v, err := item.ConvertOr(t, defaults...)
	if err != nil {
		return formatter.Fail("conversion failed", err)
	}

	result := ValueResult{Type: opts.As, Value: render(v)}
	if item.HasValue() {
		result.Source = item.Slot().TypeName()
		formatter.VerboseLog("Matched %q", item.Name())
	}
	return formatter.Success(result)
}

// ArgsOptions holds flags for the args command.
type ArgsOptions struct {
	*RootOptions
	As string // target type name
}

// NewArgsCommand creates the args command.
func NewArgsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArgsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "args <file> <index>",
		Short: "Read one value from an argument list",
		Long: `Load an argument list from a YAML, JSON or CBOR file and read one
value. Negative indexes count from the back: -1 is the last argument.

Examples:
  kwargs args args.json 0 --as int
  kwargs args --as "[]string" args.cbor -- -1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArgs(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "string", "target type name")

	return cmd
}

func runArgs(opts *ArgsOptions, file, index string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	i, err := strconv.Atoi(index)
	if err != nil {
		if outErr := formatter.Error(ErrCodeInvalidArgs, "index must be an integer: "+index, nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid index", err)
	}

	t, err := value.TypeByName(opts.As)
	if err != nil {
		return formatter.Fail("unknown type", err)
	}

	args, err := source.LoadArgs(file, source.Options{Logger: opts.Logger()})
	if err != nil {
		return formatter.Fail("loading arguments", err)
	}
	defer args.Release()
	formatter.VerboseLog("Loaded %d argument(s) from %s", args.Len(), file)

	s, err := args.At(i)
	if err != nil {
		return formatter.Fail("index out of range", err)
	}
	v, err := s.ConvertTo(t)
	if err != nil {
		return formatter.Fail("conversion failed", err)
	}
	return formatter.Success(ValueResult{Source: s.TypeName(), Type: opts.As, Value: render(v)})
}
