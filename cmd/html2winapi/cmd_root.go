package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"html2winapi/cmd/html2winapi/autogen"
	"html2winapi/cmd/html2winapi/registry"
	"html2winapi/cmd/html2winapi/sketch"
	"html2winapi/cmd/html2winapi/validation"
	"html2winapi/pkg/lib"

	"github.com/spf13/cobra"
)

// flags holds the raw command-line values; see applyFlags.
type flags struct {
	config             string
	registry           string
	startMarker        string
	endMarker          string
	maxDepth           int
	uniqueFallbackKeys bool
	dryRun             bool
	verbose            bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   appName + " <input.html> [output.cpp]",
		Short: "Generate C++ WinAPI GUI code from an HTML sketch",
		Long: "Generate C++ WinAPI GUI code from an HTML sketch.\n\n" +
			"Every supported element gets a control id that stays stable across runs;\n" +
			"ids are kept in the registry file (default " + defaultRegistryFile + ").\n" +
			"With an output file, only the lines between the AUTOGEN markers are\n" +
			"replaced; without one, the code is printed on stdout.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				fmt.Fprint(stderr, cmd.UsageString())
				return lib.WithCode(lib.CodeUsage, fmt.Errorf("expected <input.html> [output.cpp], got %d arguments", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, stderr)
			if err != nil {
				return err
			}
			r := &runner{
				cfg:     cfg,
				stdout:  stdout,
				stderr:  stderr,
				dryRun:  f.dryRun,
				verbose: f.verbose,
			}
			var output string
			if len(args) == 2 {
				output = args[1]
			}
			return r.run(args[0], output)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "config file (default: $"+envConfig+" or ./"+defaultConfigFile+")")
	pf.StringVar(&f.registry, "registry", defaultRegistryFile, "id registry file (.yml, .yaml or .json)")
	pf.StringVar(&f.startMarker, "start-marker", autogen.DefaultStart, "line opening the generated region")
	pf.StringVar(&f.endMarker, "end-marker", autogen.DefaultEnd, "line closing the generated region")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "print progress on stderr")

	cmd.Flags().IntVar(&f.maxDepth, "max-depth", sketch.DefaultMaxDepth, "container nesting depth above which a warning is reported")
	cmd.Flags().BoolVar(&f.uniqueFallbackKeys, "unique-fallback-keys", false, "number anonymous elements of the same kind instead of skipping repeats")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "generate and validate without writing the registry or the output file")

	cmd.AddCommand(newInitCmd(stdout, stderr, f), newIDsCmd(stdout, stderr, f))
	return cmd
}

// resolveConfig builds the effective config for cmd. Invalid settings are
// usage errors.
func resolveConfig(cmd *cobra.Command, f *flags, stderr io.Writer) (Config, error) {
	cfg, path, err := loadConfig(f.config)
	if err != nil {
		return cfg, err
	}
	applyFlags(cmd, &cfg, f)
	if err := cfg.validate(); err != nil {
		return cfg, lib.WithCode(lib.CodeUsage, err)
	}
	if f.verbose && path != "" {
		fmt.Fprintf(stderr, "config: %s\n", path)
	}
	return cfg, nil
}

// runner performs one generation.
type runner struct {
	cfg     Config
	stdout  io.Writer
	stderr  io.Writer
	dryRun  bool
	verbose bool
}

func (r *runner) logf(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(r.stderr, format+"\n", args...)
	}
}

// run generates code for input and merges it into output, or prints it when
// output is empty. The registry is saved only after a successful walk, and
// the output file is checked before anything is written.
func (r *runner) run(input, output string) error {
	markers := r.cfg.markers()
	if output != "" {
		if err := markers.Check(output); err != nil {
			return markerExit(err)
		}
	}

	src, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("reading sketch: %w", err)
	}
	defer src.Close()

	reg, err := registry.Load(r.cfg.Registry)
	if err != nil {
		return err
	}
	r.logf("registry: loaded %d ids from %s", reg.Len(), r.cfg.Registry)

	rep := validation.New()
	res, err := sketch.Generate(src, reg, rep, r.cfg.sketchOptions())
	if err != nil {
		var fatal *validation.FatalError
		if errors.As(err, &fatal) {
			rep.Summary(r.stdout, reportStyles(r.stdout))
			return lib.WithCode(lib.CodeDuplicateID, err)
		}
		return err
	}
	r.logf("sketch: %d controls from %s", len(res.Controls), input)
	if handlers := res.Events.Handlers(); len(handlers) > 0 {
		r.logf("events: %s", strings.Join(handlers, ", "))
	}
	code := res.Code()

	switch {
	case r.dryRun:
		fmt.Fprintln(r.stdout, code)
		r.logf("dry-run: %d new ids, nothing written", reg.Added())
	case output == "":
		if err := r.saveRegistry(reg); err != nil {
			return err
		}
		fmt.Fprintln(r.stdout, code)
	default:
		if err := r.saveRegistry(reg); err != nil {
			return err
		}
		changed, err := markers.Write(output, code)
		if err != nil {
			return markerExit(err)
		}
		if changed {
			fmt.Fprintf(r.stderr, "updated %s\n", output)
		} else {
			fmt.Fprintf(r.stderr, "%s is up to date\n", output)
		}
	}

	rep.Summary(r.stdout, reportStyles(r.stdout))
	return nil
}

func (r *runner) saveRegistry(reg *registry.Registry) error {
	if err := reg.Save(r.cfg.Registry); err != nil {
		return err
	}
	r.logf("registry: saved %d ids (%d new) to %s", reg.Len(), reg.Added(), r.cfg.Registry)
	return nil
}

// markerExit maps marker failures to their exit code.
func markerExit(err error) error {
	var me *autogen.MarkerError
	if errors.As(err, &me) {
		return lib.WithCode(lib.CodeMarkerRegion, err)
	}
	return err
}
