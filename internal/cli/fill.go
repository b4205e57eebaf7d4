package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formmanager/pkg/renderers/tui"
)

// ErrRejected is returned by fill when the answers never pass validation.
var ErrRejected = errors.New("form rejected")

func newFillCommand(state *rootState) *cobra.Command {
	var (
		output   string
		noSave   bool
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "fill <form> [id]",
		Short: "Fill a form from the terminal and save the record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			id := ""
			if len(args) > 1 {
				id = args[1]
			}
			ctx := cmd.Context()
			m, err := a.manager(ctx, args[0], id, "")
			if err != nil {
				return err
			}

			driver := state.driver()
			filler := tui.New(
				tui.WithDriver(driver),
				tui.WithAttempts(attempts),
				tui.WithLogger(a.logger.With().Str("component", "tui").Logger()),
			)
			ok, err := filler.Fill(ctx, m)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], ErrRejected)
			}
			if !noSave {
				if _, err := m.SaveObject(ctx); err != nil {
					return err
				}
				if err := driver.Info(ctx, "Saved."); err != nil {
					return err
				}
			}

			out, err := tui.Encode(m, tui.OutputFormat(output))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(state.stdout, string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(tui.OutputFormatPrettyText), "output format: json, form or pretty")
	cmd.Flags().BoolVar(&noSave, "dry-run", false, "validate without saving the record")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "how many times to ask again after a failed validation")
	return cmd
}

func (s *rootState) driver() tui.Driver {
	if s.newDriver != nil {
		return s.newDriver()
	}
	return tui.NewSurveyDriver(os.Stdin, os.Stdout, s.stderr)
}
