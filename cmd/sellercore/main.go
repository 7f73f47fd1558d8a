// Command sellercore opens the core against the configured database and
// prints the dashboard summary. It doubles as a smoke check for a
// deployment's configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	core "github.com/sellerdesk/core"
	"github.com/sellerdesk/core/internal/infrastructure/config"
	"github.com/sellerdesk/core/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	timeout := flag.Duration("timeout", 10*time.Second, "startup timeout")
	flag.Parse()

	if err := run(*configPath, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "sellercore: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, timeout time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := core.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("shutdown left resources behind", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	dashboard, err := c.Reports.Dashboard(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}
