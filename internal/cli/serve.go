package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/fedai/internal/web"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	return withEnv(c.globals, func(ctx context.Context, e *env) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.executeWithEnv(ctx, e)
	})
}

func (c *ServeCommand) executeWithEnv(ctx context.Context, e *env) error {
	if c.Host != "" {
		e.cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		e.cfg.Server.Port = c.Port
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	srv, err := web.New(e.store, e.cfg, e.log)
	if err != nil {
		return err
	}
	addr := e.cfg.ServerAddr()
	fmt.Printf("fedai %s serving on http://%s\n", c.version, addr)
	return srv.Serve(ctx, addr)
}
