package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/labaccess/internal/client/store"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/reader/access"
	"github.com/dmitrijs2005/labaccess/internal/reader/api"
	"github.com/dmitrijs2005/labaccess/internal/reader/config"
	"github.com/dmitrijs2005/labaccess/internal/reader/scanner"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	pinAttempts        = 3
	healthProbeTimeout = 3 * time.Second
)

// Backend is the part of the validation API the REPL commands use.
type Backend interface {
	Stats(ctx context.Context) (api.Stats, error)
	LastRecords(ctx context.Context, limit int) ([]api.Record, error)
	VerifyStudent(ctx context.Context, email string) (api.Verification, error)
	VerifyHelper(ctx context.Context, email string) (api.Verification, error)
	Health(ctx context.Context) error
}

// Scanner handles one scanned line.
type Scanner interface {
	Scan(ctx context.Context, raw string) (api.ValidationResult, error)
}

type App struct {
	config  *config.Config
	repos   *store.Repositories
	guard   *access.Guard
	backend Backend
	scanner Scanner
	logger  logging.Logger

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := store.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DBPath, "error", err)
		return nil, err
	}

	guard := access.NewGuard(repos.Metadata, access.WithTx(
		func(ctx context.Context, fn func(context.Context, metadata.Repository) error) error {
			return repos.InTx(ctx, func(ctx context.Context, tx *store.Repositories) error {
				return fn(ctx, tx.Metadata)
			})
		}))
	deviceID, err := guard.DeviceID(ctx)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	logger = logger.With("device_id", deviceID)

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout,
		api.WithRetry(cfg.MaxRetries, cfg.RetryInterval),
		api.WithDeviceID(deviceID),
		api.WithLogger(logger),
	)
	sc := scanner.New(client, repos.Metadata,
		scanner.WithMinInterval(cfg.MinScanInterval),
		scanner.WithLogger(logger),
	)

	return &App{
		config:  cfg,
		repos:   repos,
		guard:   guard,
		backend: client,
		scanner: sc,
		logger:  logger,
		mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run unlocks the reader, starts the online status watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.guard.Authorize(ctx, a.out, pinAttempts); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.probe(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Lab access QR reader (scan a code or type 'help' for commands)")
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
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing database", "error", err)
		}
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.Mode())
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	if err := a.backend.Health(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
