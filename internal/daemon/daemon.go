// Package daemon hosts one desktop shell behind the IPC socket, together
// with the optional metrics endpoint, config watcher and X11 integration.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/hotkeys"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/logging"
	"github.com/1broseidon/deskshell/internal/metrics"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/storage"
	"github.com/1broseidon/deskshell/internal/x11"
)

const (
	defaultDebounce    = 250 * time.Millisecond
	viewportCacheTTL   = 2 * time.Second
	metricsReadTimeout = 5 * time.Second
)

// Options configures a Daemon. Everything is optional.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath().
	ConfigPath string
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	// Logger replaces the logger built from the config.
	Logger *zap.Logger
	// Debounce delays reloads after config file events.
	Debounce time.Duration
}

// Daemon owns the long-lived pieces of a desktop session.
type Daemon struct {
	configPath string
	debounce   time.Duration

	mu      sync.Mutex
	cfg     *config.Config
	files   []string
	hotkeys *hotkeys.Handler
	watcher *Watcher

	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *storage.Store
	shell   *shell.Shell
	server  *ipc.Server

	x *x11.Connection
}

// New loads the config and builds the shell and IPC server. Nothing listens
// until Run.
func New(opts Options) (*Daemon, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(logging.Config{
			Level:       cfg.LogLevel,
			Development: cfg.Logging.Development,
			OutputPaths: cfg.Logging.OutputPaths,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	d := &Daemon{
		configPath: path,
		debounce:   debounce,
		cfg:        cfg,
		files:      res.Files,
		logger:     logger,
		metrics:    metrics.New(),
	}

	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = storage.DefaultDir()
	}
	d.store = storage.NewStore(stateDir)

	var vp geometry.ViewportInfo
	if cfg.X11.Enabled {
		conn, err := connectX11(cfg.X11)
		if err != nil {
			logger.Warn("X11 unavailable, using the configured viewport", zap.Error(err))
		} else {
			d.x = conn
			fallback := geometry.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
			vp = x11.NewViewport(conn, fallback, viewportCacheTTL, logger.Named("x11"))
		}
	}

	d.shell = shell.New(shell.Config{
		Viewport: vp,
		Settings: cfg,
		Store:    d.store,
		Metrics:  d.metrics,
		Logger:   logger,
	})

	d.server, err = ipc.NewServer(cfg, d.shell, ipc.ServerOptions{
		SocketPath: opts.SocketPath,
		ConfigPath: path,
		Reload:     d.Reload,
		Logger:     logger.Named("ipc"),
		Metrics:    d.metrics,
	})
	if err != nil {
		d.closeX11()
		return nil, err
	}

	return d, nil
}

func connectX11(cfg config.X11Config) (*x11.Connection, error) {
	if cfg.XAuthority != "" {
		if err := os.Setenv("XAUTHORITY", cfg.XAuthority); err != nil {
			return nil, err
		}
	}
	return x11.NewConnection(cfg.Display)
}

// Shell returns the hosted shell.
func (d *Daemon) Shell() *shell.Shell { return d.shell }

// Server returns the IPC server.
func (d *Daemon) Server() *ipc.Server { return d.server }

// Metrics returns the daemon's collectors.
func (d *Daemon) Metrics() *metrics.Metrics { return d.metrics }

// Config returns the config currently applied.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Reload re-reads the config file and applies it to the shell, the IPC
// server and the hotkey grabs. A config that fails to load or validate
// leaves the running one in place.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		d.metrics.ConfigReloads.WithLabelValues("error").Inc()
		d.logger.Error("config reload failed", zap.String("path", d.configPath), zap.Error(err))
		return err
	}
	cfg := res.Config

	d.mu.Lock()
	d.cfg = cfg
	d.files = res.Files
	watcher, keys := d.watcher, d.hotkeys
	d.mu.Unlock()

	d.shell.ApplyConfig(cfg)
	d.server.UpdateConfig(cfg)
	if watcher != nil {
		watcher.SetFiles(d.watchedFiles())
	}
	if keys != nil {
		keys.Unregister()
		registerHotkeys(keys, cfg, d.logger)
	}

	d.metrics.ConfigReloads.WithLabelValues("ok").Inc()
	d.logger.Info("config reloaded", zap.String("path", d.configPath), zap.Int("files", len(res.Files)))
	return nil
}

func (d *Daemon) watchedFiles() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	files := make([]string, 0, len(d.files)+1)
	files = append(files, d.configPath)
	files = append(files, d.files...)
	return files
}

func registerHotkeys(h *hotkeys.Handler, cfg *config.Config, logger *zap.Logger) {
	bindings, err := hotkeys.Bindings(cfg.Hotkeys)
	if err != nil {
		logger.Warn("invalid hotkeys", zap.Error(err))
		return
	}
	if err := h.RegisterAll(bindings); err != nil {
		logger.Warn("hotkey registration failed", zap.Error(err))
	}
}

// Run serves IPC until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	cfg := d.Config()
	d.logger.Info("daemon started",
		zap.String("socket", d.server.SocketPath()),
		zap.String("config", d.configPath),
		zap.String("state_dir", d.store.Dir()),
	)

	var wg sync.WaitGroup
	defer wg.Wait()

	if cfg.Metrics.Listen != "" {
		srv, ln, err := d.listenMetrics(cfg.Metrics.Listen)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.WatchConfig {
		w, err := NewWatcher(d.watchedFiles(), d.debounce, d.reloadFromWatch, d.logger.Named("watch"))
		if err != nil {
			d.logger.Warn("config watcher disabled", zap.Error(err))
		} else {
			d.mu.Lock()
			d.watcher = w
			d.mu.Unlock()
			defer w.Close()
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.Run(ctx)
			}()
		}
	}

	if d.x != nil {
		keys := hotkeys.NewHandler(d.x.XUtil, d.x.Root, d.shell, d.logger.Named("hotkeys"))
		registerHotkeys(keys, cfg, d.logger)
		d.mu.Lock()
		d.hotkeys = keys
		d.mu.Unlock()
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.x.EventLoop()
		}()
		defer d.closeX11()
	}

	<-ctx.Done()
	d.logger.Info("daemon stopping")
	return nil
}

func (d *Daemon) listenMetrics(addr string) (*http.Server, net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())
	d.logger.Info("metrics listening", zap.String("addr", ln.Addr().String()))
	return &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadTimeout}, ln, nil
}

// reloadFromWatch runs a reload for the watcher, keeping a panic in the
// reload path from taking the daemon down.
func (d *Daemon) reloadFromWatch() {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("config reload panic recovered", zap.Any("panic", r))
		}
	}()
	_ = d.Reload()
}

func (d *Daemon) closeX11() {
	if d.x == nil {
		return
	}
	d.mu.Lock()
	keys := d.hotkeys
	d.hotkeys = nil
	d.mu.Unlock()
	if keys != nil {
		keys.Unregister()
	}
	d.x.Quit()
	d.x.Close()
	d.x = nil
}
