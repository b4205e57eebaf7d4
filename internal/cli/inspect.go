package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTablesCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := state.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			tables, err := a.store.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range tables {
				fmt.Fprintln(state.stdout, name)
			}
			return nil
		},
	}
}

func newColumnsCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Print the introspected columns and relations of a table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			columns, err := a.store.Columns(ctx, args[0])
			if err != nil {
				return err
			}
			relations, err := a.store.BelongsTo(ctx, args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(state.stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string]any{
				"table":      args[0],
				"columns":    columns,
				"belongs_to": relations,
			})
		},
	}
}

func newRenderCommand(state *rootState) *cobra.Command {
	var (
		rendererName string
		output       string
		styles       bool
	)
	cmd := &cobra.Command{
		Use:   "render <form> [id]",
		Short: "Render a form as HTML",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := appOptions{}
			if styles {
				opts.stylesheet = stylesheetPath
			}
			a, err := state.app(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			id := ""
			if len(args) > 1 {
				id = args[1]
			}
			m, err := a.manager(cmd.Context(), args[0], id, rendererName)
			if err != nil {
				return err
			}
			html, err := m.Render(cmd.Context())
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, html, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(state.stdout, "Form written to %s\n", output)
				return nil
			}
			_, err = fmt.Fprintln(state.stdout, string(html))
			return err
		},
	}
	cmd.Flags().StringVar(&rendererName, "renderer", "", "renderer to use (default vanilla)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&styles, "link-styles", false, "link the bundled stylesheet")
	return cmd
}

func newVersionCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(state.stdout, "formmanager version %s\n", Version)
			return err
		},
	}
}
