// Package mocksettlement simulates a settlement provider for tests and local
// development. It is deterministic: failures are scripted per payment id, not
// random, so retry behavior can be exercised reliably.
package mocksettlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/provider"
	"github.com/google/uuid"
)

// FeeRate is the simulated processing fee taken on successful settlement.
const FeeRate = 0.029

// Provider implements provider.Settlement with scripted outcomes.
//
// NOT for production use. Real providers confirm asynchronously via webhooks;
// here the call resolves inline after an optional latency so worker timeout
// handling can be exercised.
type Provider struct {
	mu sync.Mutex
	// Latency is applied to every call before resolving.
	Latency time.Duration
	// failures maps a payment id to how many remaining calls should fail.
	failures map[uuid.UUID]int
	// failRefunds fails every refund when set.
	failRefunds bool
	refundCalls int
}

// New creates a provider that always succeeds.
func New() *Provider {
	return &Provider{failures: make(map[uuid.UUID]int)}
}

// FailNext makes the next n settlement attempts for the payment fail with a
// transient provider error.
func (p *Provider) FailNext(paymentID uuid.UUID, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[paymentID] = n
}

// FailRefunds toggles refund failure.
func (p *Provider) FailRefunds(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failRefunds = fail
}

// RefundCalls reports how many refund calls the provider has received.
func (p *Provider) RefundCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refundCalls
}

func (p *Provider) wait(ctx context.Context) error {
	if p.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(p.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Settle simulates provider settlement.
func (p *Provider) Settle(ctx context.Context, req provider.SettleRequest) (*provider.SettleResult, error) {
	if err := p.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
	}

	p.mu.Lock()
	if remaining := p.failures[req.PaymentID]; remaining > 0 {
		p.failures[req.PaymentID] = remaining - 1
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: insufficient funds", provider.ErrProviderUnavailable)
	}
	p.mu.Unlock()

	fee, err := money.FromSmallestUnit(
		int64(float64(req.Amount.Amount())*FeeRate),
		req.Amount.Currency(),
	)
	if err != nil {
		return nil, err
	}
	return &provider.SettleResult{
		TransactionID: "txn_" + uuid.NewString(),
		ProcessingFee: fee,
	}, nil
}

// Refund simulates a provider refund.
func (p *Provider) Refund(ctx context.Context, req provider.RefundRequest) (*provider.RefundResult, error) {
	if err := p.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
	}

	p.mu.Lock()
	p.refundCalls++
	fail := p.failRefunds
	p.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("%w: refund processing failed", provider.ErrProviderUnavailable)
	}
	return &provider.RefundResult{
		RefundTransactionID: "refund_" + uuid.NewString(),
	}, nil
}

var _ provider.Settlement = (*Provider)(nil)
