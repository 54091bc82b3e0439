// Package payments submits payments and follows their status until the API settles them.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/models"
)

const (
	DefaultMinAmount     float64       = 1000
	DefaultMaxAmount     float64       = 1000000
	DefaultAmount        float64       = 8500
	DefaultPollInterval  time.Duration = 2 * time.Second
	DefaultDisplayDelay  time.Duration = 1500 * time.Millisecond
	DefaultPollTimeout   time.Duration = 2 * time.Minute
	defaultFailedMessage string        = "the payment was rejected"
	defaultErrorMessage  string        = "the payment could not be processed"
	timeoutMessage       string        = "the payment is taking too long, check the payment history later"
)

var ErrPaymentInProgress = fmt.Errorf("a payment is already in progress")
var ErrPaymentSettled = fmt.Errorf("the previous payment has to be reset before paying again")

// PaymentAPI is the part of the API client used by the poller.
type PaymentAPI interface {
	CreatePayment(ctx context.Context, clientID string, amount float64) (models.Payment, error)
	GetClientPayment(ctx context.Context, clientID string, paymentID string) (models.Payment, error)
}

// CompletionFunc is called once when a payment completes.
type CompletionFunc func(payment models.Payment)

// Poller holds the settings shared by all poll sessions and creates them.
type Poller struct {
	MinAmount     float64
	MaxAmount     float64
	DefaultAmount float64
	PollInterval  time.Duration
	DisplayDelay  time.Duration
	PollTimeout   time.Duration

	api         PaymentAPI
	scheduler   Scheduler
	clock       Clock
	idGenerator models.IDGenerator
}

// ValidateAmount checks that the amount is within the inclusive bounds.
func (p *Poller) ValidateAmount(amount float64) error {
	if amount < p.MinAmount || amount > p.MaxAmount {
		return apierrors.NewValidationError(
			"amount",
			"the amount has to be between %.0f and %.0f",
			p.MinAmount,
			p.MaxAmount,
		)
	}
	return nil
}

// NewSession creates an idle poll session for the client.
func (p *Poller) NewSession(clientID string, onCompleted CompletionFunc) (*PollSession, error) {
	if clientID == "" {
		return nil, apierrors.NewValidationError("client", "the client is required")
	}
	id, err := p.idGenerator.ID()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PollSession{
		ID:          id,
		ClientID:    clientID,
		poller:      p,
		onCompleted: onCompleted,
		phase:       PhaseIdle,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

type PollerOption func(*Poller) error

func WithPaymentAPI(api PaymentAPI) PollerOption {
	return func(p *Poller) error {
		p.api = api
		return nil
	}
}

func WithScheduler(scheduler Scheduler) PollerOption {
	return func(p *Poller) error {
		p.scheduler = scheduler
		return nil
	}
}

func WithClock(clock Clock) PollerOption {
	return func(p *Poller) error {
		p.clock = clock
		return nil
	}
}

func WithIDGenerator(idGenerator models.IDGenerator) PollerOption {
	return func(p *Poller) error {
		p.idGenerator = idGenerator
		return nil
	}
}

func WithAmountBounds(minAmount, maxAmount float64) PollerOption {
	return func(p *Poller) error {
		p.MinAmount = minAmount
		p.MaxAmount = maxAmount
		return nil
	}
}

func WithConfig(paymentsConfig config.PaymentsConfig) PollerOption {
	return func(p *Poller) error {
		p.MinAmount = paymentsConfig.MinAmount
		p.MaxAmount = paymentsConfig.MaxAmount
		p.DefaultAmount = paymentsConfig.DefaultAmount
		p.PollInterval = paymentsConfig.PollInterval
		p.DisplayDelay = paymentsConfig.DisplayDelay
		p.PollTimeout = paymentsConfig.PollTimeout
		return nil
	}
}

func NewPoller(options ...PollerOption) (*Poller, error) {
	p := Poller{
		MinAmount:     DefaultMinAmount,
		MaxAmount:     DefaultMaxAmount,
		DefaultAmount: DefaultAmount,
		PollInterval:  DefaultPollInterval,
		DisplayDelay:  DefaultDisplayDelay,
		PollTimeout:   DefaultPollTimeout,
		clock:         systemClock{},
		idGenerator:   models.ULIDGenerator{},
	}
	for _, opt := range options {
		err := opt(&p)
		if err != nil {
			return nil, err
		}
	}
	if p.api == nil {
		return nil, fmt.Errorf("payment API not initialized")
	}
	if p.scheduler == nil {
		p.scheduler = NewGocronScheduler()
	}
	if p.MinAmount <= 0 || p.MaxAmount < p.MinAmount {
		return nil, fmt.Errorf("invalid amount bounds [%v, %v]", p.MinAmount, p.MaxAmount)
	}
	if p.PollInterval <= 0 {
		return nil, fmt.Errorf("invalid value for PollInterval (%s)", p.PollInterval)
	}
	if p.DisplayDelay < 0 || p.PollTimeout < 0 {
		return nil, fmt.Errorf("the display delay and the poll timeout cannot be negative")
	}
	slog.Debug(
		"PAYMENT POLLER",
		"message",
		"poller initialized",
		"pollInterval",
		p.PollInterval,
		"minAmount",
		p.MinAmount,
		"maxAmount",
		p.MaxAmount,
	)
	return &p, nil
}
