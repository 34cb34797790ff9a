package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/soyunomas/bytedupes/internal/config"
	"github.com/soyunomas/bytedupes/internal/engine"
	"github.com/soyunomas/bytedupes/internal/report"
	"github.com/soyunomas/bytedupes/internal/scanner"
	"github.com/soyunomas/bytedupes/internal/verbose"
)

// Códigos de salida
const (
	exitOK       = 0
	exitUsage    = 1
	exitFailure  = 1
	exitNotFound = 2
)

const usageLine = "Usage: bytedupes <root_directory>"

type exitError struct {
	code  int
	err   error
	usage bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type options struct {
	jsonOut    bool
	configPath string
	overrides  []string
	verbosity  int
	workers    int
	minSize    int64
	excludes   []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, osfs.New("/")))
}

// run ejecuta la herramienta y devuelve el código de salida.
func run(args []string, stdout, stderr io.Writer, fsys billy.Filesystem) int {
	cmd := newRootCmd(stdout, stderr, fsys)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintf(stderr, "bytedupes: %v\n", ee.err)
		if ee.usage {
			fmt.Fprintln(stderr, usageLine)
		}
		return ee.code
	}

	// Errores de cobra (flags desconocidos, etc.)
	fmt.Fprintf(stderr, "bytedupes: %v\n", err)
	fmt.Fprintln(stderr, usageLine)
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer, fsys billy.Filesystem) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bytedupes <root_directory>",
		Short: "Find byte-identical files under a directory",
		Long: `bytedupes walks a directory tree, groups regular files by size and
compares files of equal size byte by byte, reporting groups of identical files.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitError{code: exitUsage, err: fmt.Errorf("expected 1 argument, got %d", len(args)), usage: true}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, args[0], stdout, stderr, fsys)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.BoolVar(&opts.jsonOut, "json", false, "write the report as JSON")
	f.StringVar(&opts.configPath, "config", "", "INI configuration file")
	f.StringArrayVar(&opts.overrides, "set", nil, "override a config value (key:value)")
	f.CountVarP(&opts.verbosity, "verbose", "v", "increase log detail on stderr (-v, -vv, -vvv)")
	f.IntVar(&opts.workers, "workers", 1,
		fmt.Sprintf("number of size groups compared in parallel (max %d; each worker may hold up to 512 MiB of read buffers)", config.MaxWorkers))
	f.Int64Var(&opts.minSize, "min-size", 0, "ignore files smaller than this many bytes")
	f.StringArrayVar(&opts.excludes, "exclude", nil, "directory name to skip (repeatable)")

	return cmd
}

func execute(cmd *cobra.Command, opts *options, root string, stdout, stderr io.Writer, fsys billy.Filesystem) error {
	all, err := resolveConfig(cmd, opts)
	if err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("configuration: %w", err)}
	}

	log := verbose.New(stderr, all.Verbose.Level)

	runner := engine.New(fsys, engine.Options{
		MinSize:  all.Scan.MinSize,
		Excludes: all.Scan.Excludes,
		Workers:  all.Performance.Workers,
	}, log)

	res, err := runner.Run(root)
	if err != nil {
		if errors.Is(err, scanner.ErrPathNotFound) || errors.Is(err, scanner.ErrNotDirectory) {
			return &exitError{code: exitNotFound, err: err}
		}
		return &exitError{code: exitFailure, err: err}
	}

	if all.Output.Format == "json" {
		err = report.WriteJSON(stdout, report.Build(res, time.Now()))
	} else {
		err = report.WriteText(stdout, res.Clusters, res.Scan)
	}
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("writing report: %w", err)}
	}
	return nil
}

// resolveConfig combina archivo, overrides y flags explícitos, en ese orden.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.AllConfig, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(opts.overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	all := cfg.GetAllConfig()
	flags := cmd.Flags()
	if flags.Changed("json") && opts.jsonOut {
		all.Output.Format = "json"
	}
	if flags.Changed("verbose") {
		all.Verbose.Level = min(opts.verbosity, 3)
	}
	if flags.Changed("workers") {
		if err := config.ValidateWorkers(opts.workers); err != nil {
			return nil, err
		}
		all.Performance.Workers = opts.workers
	}
	if flags.Changed("min-size") {
		if err := config.ValidateMinSize(opts.minSize); err != nil {
			return nil, err
		}
		all.Scan.MinSize = opts.minSize
	}
	all.Scan.Excludes = append(all.Scan.Excludes, opts.excludes...)

	return all, nil
}
