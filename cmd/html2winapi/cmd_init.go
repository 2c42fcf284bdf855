package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"html2winapi/pkg/lib"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

//go:embed skeleton.cpp.tmpl
var skeletonTmpl string

var skeleton = template.Must(template.New("skeleton").Parse(skeletonTmpl))

var cppIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const defaultFunc = "CreateControls"

type skeletonData struct {
	App   string
	File  string
	Func  string
	Start string
	End   string
}

// confirmOverwrite asks before replacing an existing file.
var confirmOverwrite = func(path string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirm overwrite: %w", err)
	}
	return ok, nil
}

func newInitCmd(stdout, stderr io.Writer, f *flags) *cobra.Command {
	var (
		force       bool
		interactive bool
		funcName    string
	)
	cmd := &cobra.Command{
		Use:   "init <output.cpp>",
		Short: "Write a C++ source skeleton with an empty AUTOGEN region",
		Long: "Write a C++ source file holding a control creation function whose body\n" +
			"is an empty AUTOGEN region, ready to be filled by " + appName + ".\n\n" +
			"An existing file is kept unless --force is given or --interactive\n" +
			"confirms the overwrite.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprint(stderr, cmd.UsageString())
				return lib.WithCode(lib.CodeUsage, fmt.Errorf("expected <output.cpp>, got %d arguments", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, stderr)
			if err != nil {
				return err
			}
			if !cppIdent.MatchString(funcName) {
				return lib.WithCode(lib.CodeUsage, fmt.Errorf("--func %q is not a C++ identifier", funcName))
			}
			path := args[0]

			if _, err := os.Stat(path); err == nil && !force {
				if !interactive {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				ok, err := confirmOverwrite(path)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(stderr, "kept %s\n", path)
					return nil
				}
			}

			var buf bytes.Buffer
			err = skeleton.Execute(&buf, skeletonData{
				App:   appName,
				File:  filepath.Base(path),
				Func:  funcName,
				Start: cfg.StartMarker,
				End:   cfg.EndMarker,
			})
			if err != nil {
				return fmt.Errorf("rendering skeleton: %w", err)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintf(stderr, "initialised %s\n", path)
			fmt.Fprintf(stdout, "\nRun `%s <sketch.html> %s` to generate the controls.\n", appName, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask before overwriting an existing file")
	cmd.Flags().StringVar(&funcName, "func", defaultFunc, "name of the generated creation function")
	return cmd
}
