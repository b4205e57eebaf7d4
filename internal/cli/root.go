// Package cli implements the formmanager command: inspect tables, render
// forms, serve them over HTTP and fill them from the terminal.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formmanager/internal/config"
	"github.com/goliatone/go-formmanager/pkg/renderers/tui"
)

// Version is set at build time.
var Version = "0.1.0-dev"

type rootState struct {
	configFile string
	viper      *viper.Viper
	stdout     io.Writer
	stderr     io.Writer
	// newDriver builds the prompt driver of the fill command.
	newDriver func() tui.Driver
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	return newRootCommand(&rootState{stdout: stdout, stderr: stderr})
}

func newRootCommand(state *rootState) *cobra.Command {
	root := &cobra.Command{
		Use:           "formmanager",
		Short:         "Bind database records to HTML forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  formmanager columns posts
  formmanager render post 1 --database blog.db
  formmanager serve --listen :8080
  formmanager fill post --output pretty`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			state.viper = config.New(state.configFile)
			flags := map[string]string{
				"database":    "database",
				"definitions": "definitions",
				"templates":   "templates",
				"themes":      "themes",
				"theme":       "theme",
				"variant":     "variant",
				"log-level":   "log.level",
				"log-file":    "log.file",
			}
			for flag, key := range flags {
				if f := cmd.Flags().Lookup(flag); f != nil {
					if err := state.viper.BindPFlag(key, f); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	root.SetOut(state.stdout)
	root.SetErr(state.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&state.configFile, "config", "", "config file (default is ./formmanager.yaml)")
	pf.String("database", "", "SQLite database path")
	pf.String("definitions", "", "directory of form definition documents")
	pf.String("templates", "", "directory of template overrides")
	pf.String("themes", "", "directory of theme manifests")
	pf.String("theme", "", "theme name")
	pf.String("variant", "", "theme variant")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "rotated log file")

	root.AddCommand(
		newTablesCommand(state),
		newColumnsCommand(state),
		newRenderCommand(state),
		newServeCommand(state),
		newFillCommand(state),
		newVersionCommand(state),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (s *rootState) app(cmd *cobra.Command, opts appOptions) (*app, error) {
	return newApp(cmd.Context(), s.viper, s.stderr, opts)
}
