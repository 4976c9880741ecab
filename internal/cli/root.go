// Package cli wires the batchren command line to the orchestrator.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"batchren/internal/config"
	"batchren/internal/confirm"
	"batchren/internal/orchestrator"
	"batchren/internal/output"
	"batchren/internal/transform"
)

// Flag names.
const (
	flagApply        = "apply"
	flagRecursive    = "recursive"
	flagReplace      = "replace"
	flagPrefix       = "prefix"
	flagSuffix       = "suffix"
	flagVerbose      = "verbose"
	flagConfig       = "config"
	flagMaxFiles     = "max-files"
	flagSaveDefaults = "save-defaults"
)

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	IsTTY bool // Out is a terminal
}

// DefaultStreams returns the process's standard streams.
func DefaultStreams() Streams {
	cfg := output.DefaultConfig()
	return Streams{
		In:    os.Stdin,
		Out:   cfg.Writer,
		Err:   cfg.ErrWriter,
		IsTTY: cfg.IsTTY,
	}
}

type flags struct {
	apply        bool
	recursive    bool
	replace      string
	prefix       string
	suffix       string
	verbose      bool
	configPath   string
	maxFiles     int
	saveDefaults bool
}

// NewRootCommand builds the batchren command.
func NewRootCommand(streams Streams) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "batchren <directory>",
		Short: "Batch rename files by replacing dots and spaces",
		Long: `batchren replaces the dots and spaces in file names, keeping the extension,
and can add a prefix and a suffix. Hidden files and hidden directories are
left alone.

By default it only previews the changes. Pass --apply to rename, after
typing 'yes' at the confirmation prompt. Every applied run writes a
rename_log_<timestamp>.txt file in the target directory.

Defaults for --replace, --prefix, --suffix, --recursive and --max-files can
be kept in a YAML file ($XDG_CONFIG_HOME/batchren/config.yaml or
~/.config/batchren/config.yaml). Flags given on the command line win.

Exit Codes:
  0   - Success, or the confirmation was declined
  1   - Invalid option or run failure
  2   - CLI usage error (invalid arguments or flags)
  130 - Interrupted`,
		Example: `  batchren ~/Downloads
  batchren ./photos --recursive --replace=- --prefix=2024_ --apply`,
		Args: func(cmd *cobra.Command, args []string) error {
			return newUsageError(cobra.ExactArgs(1)(cmd, args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], f, streams)
		},
	}

	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	fs := cmd.Flags()
	fs.BoolVar(&f.apply, flagApply, false, "Rename the files (default is a preview only)")
	fs.BoolVarP(&f.recursive, flagRecursive, "r", false, "Descend into non-hidden subdirectories")
	fs.StringVar(&f.replace, flagReplace, transform.DefaultReplacement, "Replacement for dots and spaces; empty removes them")
	fs.StringVar(&f.prefix, flagPrefix, "", "Text added before each renamed file's base name")
	fs.StringVar(&f.suffix, flagSuffix, "", "Text added after each renamed file's base name")
	fs.BoolVarP(&f.verbose, flagVerbose, "v", false, "Enable verbose output")
	fs.StringVar(&f.configPath, flagConfig, "", "Path to a YAML defaults file")
	fs.IntVar(&f.maxFiles, flagMaxFiles, config.DefaultMaxFiles, "Stop scanning after this many files")
	fs.BoolVar(&f.saveDefaults, flagSaveDefaults, false, "Save the effective settings to the defaults file")

	return cmd
}

// Execute runs the command with args and prints any error to streams.Err.
func Execute(ctx context.Context, args []string, streams Streams) error {
	cmd := NewRootCommand(streams)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch ExitCodeForError(err) {
	case ExitSuccess:
	case ExitInterrupted:
		fmt.Fprintln(streams.Err, "Interrupted.")
	case ExitUsageError:
		fmt.Fprintf(streams.Err, "Error: %v\n", err)
		fmt.Fprintf(streams.Err, "Run '%s --help' for usage.\n", cmd.Name())
	default:
		fmt.Fprintf(streams.Err, "Error: %v\n", err)
	}
	return err
}

func run(cmd *cobra.Command, directory string, f *flags, streams Streams) error {
	opts, err := resolveOptions(cmd.Flags(), directory, f)
	if err != nil {
		return err
	}

	out := output.New(output.Config{
		Verbose:   opts.Verbose,
		Writer:    streams.Out,
		ErrWriter: streams.Err,
		IsTTY:     streams.IsTTY,
	})

	if f.saveDefaults {
		if err := config.ValidateOptions(opts); err != nil {
			return err
		}
		path, err := saveDefaults(opts, f.configPath)
		if err != nil {
			return err
		}
		out.Info("Saved defaults to %s", path)
	}

	if opts.Apply && !confirm.IsInteractive() {
		out.Verbose("stdin is not a terminal; reading the confirmation from input")
	}

	_, err = orchestrator.Run(cmd.Context(), opts, orchestrator.Deps{
		Reporter:  output.NewReporter(out),
		Confirmer: confirm.NewInteractiveConfirmer(streams.In, streams.Out),
	})
	return err
}

// resolveOptions builds the effective options: built-in defaults, then the
// defaults file, then every flag set explicitly on the command line.
func resolveOptions(fs *pflag.FlagSet, directory string, f *flags) (config.Options, error) {
	opts := config.DefaultOptions()

	defaults, err := loadDefaults(fs, f.configPath)
	if err != nil {
		return opts, err
	}
	opts.Merge(defaults)

	fs.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case flagReplace:
			opts.Rules.Replacement = f.replace
		case flagPrefix:
			opts.Rules.Prefix = f.prefix
		case flagSuffix:
			opts.Rules.Suffix = f.suffix
		case flagRecursive:
			opts.Recursive = f.recursive
		case flagMaxFiles:
			opts.MaxFiles = f.maxFiles
		}
	})
	opts.Apply = f.apply
	opts.Verbose = f.verbose

	dir, err := config.ResolveDirectory(directory)
	if err != nil {
		return opts, err
	}
	opts.Directory = dir
	return opts, nil
}

// loadDefaults reads the defaults file. An explicit --config must exist;
// the per-user file is optional.
func loadDefaults(fs *pflag.FlagSet, configPath string) (*config.FileDefaults, error) {
	if fs.Changed(flagConfig) {
		return config.Load(configPath)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return &config.FileDefaults{}, nil
	}
	return config.LoadOrEmpty(path)
}

func saveDefaults(opts config.Options, configPath string) (string, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return "", err
		}
	}
	if err := config.Save(config.DefaultsFromOptions(opts), path); err != nil {
		return "", err
	}
	return path, nil
}
