package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/decocms/mcps/internal/binder"
	"github.com/decocms/mcps/internal/cmd"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/contracts"
	"github.com/decocms/mcps/internal/domain"
	"github.com/decocms/mcps/internal/invoke"
	"github.com/decocms/mcps/internal/platform/cms"
	"github.com/decocms/mcps/internal/platform/commerce"
	"github.com/decocms/mcps/internal/platform/mediagen"
)

// CatalogFunc builds a platform's operations from its configuration.
type CatalogFunc func(logger hclog.Logger, cfg config.PlatformConfig) ([]binder.Operation, error)

// Catalogs maps the platform names accepted in configuration to their catalog builders.
func Catalogs() map[string]CatalogFunc {
	return map[string]CatalogFunc{
		"mediagen": mediagen.Catalog,
		"cms":      cms.Catalog,
		"commerce": commerce.Catalog,
	}
}

// Daemon hosts the bound platform tools over stdio and HTTP.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger        hclog.Logger
	cfg           *config.Config
	registry      *CatalogRegistry
	healthTracker *HealthTracker
	apiServer     *APIServer
	stdio         bool

	healthInterval time.Duration
	pingTimeout    time.Duration
}

// Dependencies contains the required external dependencies for the daemon.
type Dependencies struct {
	// Logger for daemon operations.
	Logger hclog.Logger

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// Addr specifies the network address for the HTTP API.
	Addr string

	// Stdio enables serving the bound tools over the stdio MCP transport.
	Stdio bool
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid api address '%s': %w", d.Addr, err)
	}
	return nil
}

// NewDaemon builds the tool catalogs for every configured platform and wires
// them to the HTTP API and, optionally, the stdio MCP transport.
func NewDaemon(deps Dependencies, apiOpt ...APIOption) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	invoker, err := invoke.NewInvoker(
		logger,
		invoke.WithMaxRetries(deps.Cfg.Retry.MaxRetries),
		invoke.WithInitialDelay(deps.Cfg.Retry.InitialDelay()),
		invoke.WithMaxJitter(deps.Cfg.Retry.MaxJitter()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoker: %w", err)
	}

	b, err := binder.NewBinder(logger, invoker)
	if err != nil {
		return nil, fmt.Errorf("failed to create binder: %w", err)
	}

	registry := NewCatalogRegistry()
	builders := Catalogs()
	for name, platformCfg := range deps.Cfg.Platforms {
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown platform '%s' in config", name)
		}

		ops, err := build(logger, platformCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog for platform '%s': %w", name, err)
		}

		bound := make([]contracts.BoundTool, 0, len(ops))
		for _, op := range ops {
			tool, handler, err := b.Bind(op)
			if err != nil {
				return nil, fmt.Errorf("failed to bind tool '%s' for platform '%s': %w", op.ID, name, err)
			}
			bound = append(bound, contracts.BoundTool{Tool: tool, Handler: handler})
		}

		registry.Add(name, bound)
		logger.Info("Registered platform catalog", "platform", name, "tools", len(bound))
	}

	healthTracker := NewHealthTracker(deps.Cfg.PlatformNames())

	apiServer, err := NewAPIServer(APIDependencies{
		Addr:          deps.Addr,
		Catalogs:      registry,
		HealthTracker: healthTracker,
		Logger:        deps.Logger,
	}, apiOpt...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:         logger,
		cfg:            deps.Cfg,
		registry:       registry,
		healthTracker:  healthTracker,
		apiServer:      apiServer,
		stdio:          deps.Stdio,
		healthInterval: 10 * time.Second,
		pingTimeout:    3 * time.Second,
	}, nil
}

// StartAndManage runs the daemon's servers until the context is canceled or
// one of them fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := d.apiServer.Start(ctx)
		if stdErrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	eg.Go(func() error {
		d.healthCheckLoop(ctx)
		return nil
	})

	if d.stdio {
		eg.Go(func() error {
			return d.serveStdio(ctx)
		})
	}

	return eg.Wait()
}

// serveStdio exposes every bound tool on a single MCP server over stdio.
func (d *Daemon) serveStdio(ctx context.Context) error {
	mcpServer := server.NewMCPServer(
		"mcps",
		cmd.Version(),
		server.WithToolCapabilities(true),
	)

	platforms := d.registry.Platforms()
	sort.Strings(platforms)
	for _, platform := range platforms {
		tools, _ := d.registry.Tools(platform)
		for _, tool := range tools {
			handler, ok := d.registry.Handler(platform, tool.Name)
			if !ok {
				continue
			}
			mcpServer.AddTool(tool, handler)
		}
	}

	d.logger.Info("Starting stdio MCP server")
	stdioServer := server.NewStdioServer(mcpServer)
	stdioServer.SetErrorLogger(d.logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}))

	err := stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	if stdErrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// healthCheckLoop pings every configured platform base URL on a fixed interval
// until the context is canceled.
func (d *Daemon) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(d.healthInterval)
	defer ticker.Stop()

	// Establish the initial statuses without waiting a full interval.
	d.checkPlatforms(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkPlatforms(ctx)
		}
	}
}

// checkPlatforms performs a single reachability check of each platform.
func (d *Daemon) checkPlatforms(ctx context.Context) {
	for name, platformCfg := range d.cfg.Platforms {
		status, latency := d.ping(ctx, platformCfg.BaseURL)
		if err := d.healthTracker.Update(name, status, latency); err != nil {
			d.logger.Error("Failed to record platform health", "platform", name, "error", err)
		}
	}
}

// ping issues a HEAD request to the platform's base URL and classifies the outcome.
// Any HTTP response counts as reachable, only transport failures do not.
func (d *Daemon) ping(ctx context.Context, baseURL string) (domain.HealthStatus, *time.Duration) {
	pingCtx, cancel := context.WithTimeout(ctx, d.pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pingCtx, http.MethodHead, baseURL, nil)
	if err != nil {
		return domain.HealthStatusUnreachable, nil
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		var netErr net.Error
		if stdErrors.Is(err, context.DeadlineExceeded) || (stdErrors.As(err, &netErr) && netErr.Timeout()) {
			return domain.HealthStatusTimeout, nil
		}
		return domain.HealthStatusUnreachable, nil
	}
	_ = resp.Body.Close()

	return domain.HealthStatusOK, &latency
}
