package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/pcbuilder/storefront/internal/config"
	"github.com/pcbuilder/storefront/internal/worker"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Module provides the storefront facade, the HTTP server and the payment
// poller, and ties their run time to the fx lifecycle.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		newHTTPServer,
		newPaymentPoller,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

type workerParams struct {
	fx.In

	Facade *StorefrontFacade
	Config *config.Config
	Logger *slog.Logger
}

func newPaymentPoller(p workerParams) *worker.PaymentPoller {
	return worker.NewPaymentPoller(
		p.Facade,
		p.Config.PaymentPollInterval,
		p.Config.PaymentPollMinAge,
		p.Config.MaxPaymentsBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Poller     *worker.PaymentPoller
	Config     *config.Config
}

// runtime owns the long-running parts of the storefront between OnStart and
// OnStop.
type runtime struct {
	server     *http.Server
	poller     *worker.PaymentPoller
	shutdowner fx.Shutdowner
	logger     *slog.Logger
	cfg        *config.Config
}

func registerLifecycle(p lifecycleParams) {
	rt := &runtime{
		server:     p.Server,
		poller:     p.Poller,
		shutdowner: p.Shutdowner,
		logger:     p.Logger,
		cfg:        p.Config,
	}
	p.Lifecycle.Append(fx.Hook{OnStart: rt.start, OnStop: rt.stop})
}

func (rt *runtime) start(ctx context.Context) error {
	rt.logger.Info("storefront starting",
		slog.String("addr", rt.server.Addr),
		slog.Duration("payment_poll_interval", rt.cfg.PaymentPollInterval),
		slog.Duration("payment_poll_min_age", rt.cfg.PaymentPollMinAge),
		slog.Int("payment_poll_batch", rt.cfg.MaxPaymentsBatch))

	// fx cancels ctx as soon as OnStart returns.
	rt.poller.Start(context.WithoutCancel(ctx))
	go rt.serve()
	return nil
}

func (rt *runtime) serve() {
	err := rt.server.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	rt.logger.Error("storefront http server failed", slog.String("error", err.Error()))
	if err := rt.shutdowner.Shutdown(); err != nil {
		rt.logger.Error("request shutdown failed", slog.String("error", err.Error()))
	}
}

// stop halts the poller, then the server within the shutdown timeout.
func (rt *runtime) stop(ctx context.Context) error {
	rt.poller.Stop()

	if _, ok := ctx.Deadline(); !ok && rt.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := rt.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	rt.logger.Info("storefront stopped")
	return nil
}
