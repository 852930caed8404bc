package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pcbuilder/storefront/internal/adapter/vnpay"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the worker.
type PaymentFacade interface {
	PendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error)
	PollPayment(ctx context.Context, payment model.Payment) (*model.PaymentResult, error)
}

// PaymentPoller queries the gateway for payments whose return redirect never
// arrived and settles them concurrently.
type PaymentPoller struct {
	facade       PaymentFacade
	pollInterval time.Duration
	minAge       time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs     chan model.Payment
	inflight map[int64]struct{}
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewPaymentPoller constructs payment poller worker pool.
func NewPaymentPoller(facade PaymentFacade, pollInterval, minAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &PaymentPoller{
		facade:       facade,
		pollInterval: pollInterval,
		minAge:       minAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
		inflight:     make(map[int64]struct{}),
	}
}

// Start launches background processing.
func (p *PaymentPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentPoller) fetchAndDispatch(ctx context.Context) {
	payments, err := p.facade.PendingPayments(ctx, time.Now().Add(-p.minAge), p.batchSize)
	if err != nil {
		p.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		if !p.claim(payment.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			p.release(payment.ID)
			return
		case p.jobs <- payment:
		}
	}
}

// claim marks a payment as queued; a payment already queued or being polled
// is skipped until its worker releases it.
func (p *PaymentPoller) claim(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inflight[id]; ok {
		return false
	}
	p.inflight[id] = struct{}{}
	return true
}

func (p *PaymentPoller) release(id int64) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
}

func (p *PaymentPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment := <-p.jobs:
			p.handlePayment(ctx, payment)
			p.release(payment.ID)
		}
	}
}

func (p *PaymentPoller) handlePayment(ctx context.Context, payment model.Payment) {
	result, err := p.facade.PollPayment(ctx, payment)
	if err != nil {
		var limited vnpay.TooManyRequestsError
		if errors.As(err, &limited) {
			p.logger.Warn("payment gateway rate limited", slog.Duration("retry_after", limited.RetryAfter))
			sleep(ctx, limited.RetryAfter)
			return
		}
		p.logger.Error("payment query failed", slog.String("order_id", payment.OrderID.String()), slog.String("error", err.Error()))
		return
	}
	if result.Outcome != model.OutcomePending {
		p.logger.Info("payment polled",
			slog.String("order_id", payment.OrderID.String()),
			slog.String("outcome", string(result.Outcome)))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
