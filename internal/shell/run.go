// Package shell implements the interactive sqlic shell.
package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlic/sqlic"
	"github.com/sqlic/sqlic/internal/log"
	"github.com/sqlic/sqlic/internal/shell/config"
	"github.com/sqlic/sqlic/internal/shell/repl"
	"github.com/sqlic/sqlic/internal/version"
)

// Run runs the sqlic shell.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)
	logger := log.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion())

	conn, err := sqlic.Open(conf.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", log.KV{
			"path":  conf.DatabasePath,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to open %s: %w", conf.DatabasePath, err)
	}
	defer func() { _ = conn.Close() }()

	rp := repl.NewRepl(ctx, stop, conf, conn)
	go func() {
		if err := rp.Start(); err != nil {
			logger.Error("shell stopped", log.KV{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
