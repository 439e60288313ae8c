package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/pkg/diff"
	"github.com/vango-dev/reconcile/pkg/inspect"
)

type replayOptions struct {
	serve    string
	interval time.Duration
	timeout  time.Duration
	quiet    bool
}

func replayCmd(opts *globalOptions) *cobra.Command {
	var ro replayOptions

	cmd := &cobra.Command{
		Use:   "replay FIXTURE",
		Short: "Diff the trees of a fixture in order",
		Long: `Diff every tree of FIXTURE against the result of the previous one,
printing each journal and the final markup.

With --serve, the inspector is started first and keeps running after
the replay so journals can be followed over a websocket.

Examples:
  reconcile replay todo
  reconcile replay todo --serve --interval=1s
  reconcile replay todo --serve=:9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("serve") && strings.TrimSpace(ro.serve) == "" {
				ro.serve = e.cfg.Inspect.Addr
			}
			return runReplay(cmd, e, args[0], ro)
		},
	}

	cmd.Flags().StringVar(&ro.serve, "serve", "", "Serve the inspector on this address (default from reconcile.json)")
	cmd.Flags().Lookup("serve").NoOptDefVal = " "
	cmd.Flags().DurationVar(&ro.interval, "interval", 0, "Pause between trees")
	cmd.Flags().DurationVar(&ro.timeout, "timeout", 10*time.Second, "How long to wait for deferred values")
	cmd.Flags().BoolVarP(&ro.quiet, "quiet", "q", false, "Print only the final markup")

	return cmd
}

func runReplay(cmd *cobra.Command, e *env, name string, ro replayOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := e.source.Load(ctx, name)
	if err != nil {
		return err
	}

	body := newBody()
	var extra []diff.Option
	var httpSrv *http.Server
	if addr := strings.TrimSpace(ro.serve); addr != "" {
		srv := inspect.NewServer(
			inspect.WithLogger(e.logger),
			inspect.WithPath(e.cfg.Inspect.Path),
			inspect.WithGatherer(e.registry),
			inspect.WithHTML(body.InnerHTML),
		)
		defer srv.Close()
		extra = append(extra, diff.WithObserver(srv))

		httpSrv = &http.Server{Addr: addr, Handler: srv.Handler()}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		go func() {
			if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
				e.logger.Error("inspector stopped", "error", err)
			}
		}()
		success(cmd, "Inspector on http://%s%s/", ln.Addr(), e.cfg.Inspect.Path)
	}
	c := e.container(body, extra...)

	out := cmd.OutOrStdout()
	for i := 0; i < doc.Len(); i++ {
		if i > 0 && ro.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ro.interval):
			}
		}
		if err := step(ctx, c, doc, i, ro.timeout); err != nil {
			return fmt.Errorf("%s tree %d: %w", doc.Name, i, err)
		}
		if !ro.quiet {
			fmt.Fprint(out, describe(c, uint64(i+1)))
		}
		c.Commit(ctx)
	}
	fmt.Fprintln(out, body.InnerHTML())

	if httpSrv == nil {
		return nil
	}
	info(cmd, "Replay done, serving until interrupted")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
