package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/labaccess/internal/client/config"
	"github.com/dmitrijs2005/labaccess/internal/client/display"
	"github.com/dmitrijs2005/labaccess/internal/client/metrics"
	"github.com/dmitrijs2005/labaccess/internal/client/services"
	"github.com/dmitrijs2005/labaccess/internal/client/store"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/qr"
)

type App struct {
	config  *config.Config
	gen     services.Generator
	repos   *store.Repositories
	metrics *metrics.Metrics
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and builds the generator for cfg.UserType.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := store.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DBPath, "error", err)
		return nil, err
	}

	a := &App{
		config:  cfg,
		repos:   repos,
		metrics: metrics.New(),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	manager, err := qr.NewManager(
		qr.WithTiming(cfg.Timing()),
		qr.WithLogger(logger),
		qr.WithObserver(a.metrics),
		qr.WithObserver(qr.ObserverFunc(a.announce)),
	)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a.gen = services.NewGenerator(cfg.UserType, cfg.AutoRenew, repos.Identities, manager, logger)
	return a, nil
}

// Run starts the optional kiosk display and blocks in the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	if a.config.DisplayAddr != "" {
		srv := display.NewServer(a.gen, a.metrics.Handler(), a.logger)
		go func() {
			if err := srv.Run(ctx, a.config.DisplayAddr); err != nil {
				a.logger.Error(ctx, "display stopped", "error", err)
			}
		}()
	}

	fmt.Fprintf(a.out, "Lab access QR generator, %s screen (type 'help' for commands)\n",
		a.gen.UserType().WireName())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}

func (a *App) close() {
	a.gen.Close()
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing database", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	auto := "off"
	if a.gen.AutoRenew() {
		auto = "on"
	}
	s := fmt.Sprintf("%s auto:%s", a.gen.UserType().WireName(), auto)
	if t, ok := a.gen.Current(); ok {
		s += " " + t.Status()
	}
	return fmt.Sprintf("(%s)", s)
}

// announce tells the user about transitions that happen between commands.
func (a *App) announce(ev qr.Event, t qr.Token) {
	if ev == qr.EventExpired {
		fmt.Fprintln(a.out, "\nQR code expired. Generate a new one or enable auto-renewal.")
	}
}
