package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/handler"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(state *rootState) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := state.app(cmd, appOptions{stylesheet: stylesheetPath})
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Listen
			if listen != "" {
				addr = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("serving forms")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info().Msg("server stopped")
	return nil
}

// router mounts the form index, the bundled assets and one handler serving
// /forms/{form} and /forms/{form}/{id}.
func (a *app) router() http.Handler {
	forms := handler.New(a.formFactory,
		handler.WithLogger(a.logger.With().Str("component", "handler").Logger()),
		handler.WithSuccessURL(func(r *http.Request, m *form.Manager) string {
			rec := m.Record()
			if rec == nil || rec.PrimaryKey() == "" {
				return r.URL.Path
			}
			return fmt.Sprintf("/forms/%s/%v", chi.URLParam(r, "form"), rec.Get(rec.PrimaryKey()))
		}),
	)

	r := chi.NewRouter()
	r.Get("/", a.index)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	r.Handle("/forms/{form}", forms)
	r.Handle("/forms/{form}/{id}", forms)
	return r
}

func (a *app) formFactory(r *http.Request) (*form.Manager, error) {
	name := chi.URLParam(r, "form")
	if _, err := a.definition(r.Context(), name); err != nil {
		return nil, handler.StatusError{Code: http.StatusNotFound, Err: err}
	}
	id := chi.URLParam(r, "id")
	return a.manager(r.Context(), name, id, "", form.WithRequest(r))
}

func (a *app) index(w http.ResponseWriter, r *http.Request) {
	names := a.defs.FormNames()
	if len(names) == 0 {
		tables, err := a.store.Tables(r.Context())
		if err != nil {
			a.logger.Error().Err(err).Msg("list tables")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		names = tables
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!doctype html>\n<title>Forms</title>\n<ul>\n")
	for _, name := range names {
		escaped := html.EscapeString(name)
		fmt.Fprintf(w, "<li><a href=\"/forms/%s\">%s</a></li>\n", escaped, escaped)
	}
	fmt.Fprint(w, "</ul>\n")
}
