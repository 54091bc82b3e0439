package payments

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/models"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// State is a snapshot of a poll session.
type State struct {
	ID       string          `json:"id"`
	ClientID string          `json:"client_id"`
	Phase    Phase           `json:"phase"`
	Payment  *models.Payment `json:"payment,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// PollSession follows a single payment of a client. Ticks that belong to a previous cycle,
// or that arrive after the session stopped polling, are ignored.
type PollSession struct {
	ID       string
	ClientID string

	poller      *Poller
	onCompleted CompletionFunc

	lock      sync.Mutex
	phase     Phase
	payment   *models.Payment
	message   string
	cycle     int
	startedAt time.Time
	checking  bool
	ticker    Ticker
	timer     Timer
	closed    bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func (s *PollSession) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	output := State{ID: s.ID, ClientID: s.ClientID, Phase: s.phase, Message: s.message}
	if s.payment != nil {
		payment := *s.payment
		output.Payment = &payment
	}
	return output
}

func (s *PollSession) Phase() Phase {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.phase
}

// Submit validates the amount and creates the payment. A payment that is not settled by the
// creation response is then polled until it reaches a terminal status.
func (s *PollSession) Submit(ctx context.Context, amount float64) error {
	err := s.poller.ValidateAmount(amount)
	if err != nil {
		return err
	}
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return context.Canceled
	}
	switch s.phase {
	case PhaseIdle:
	case PhaseProcessing:
		s.lock.Unlock()
		return ErrPaymentInProgress
	default:
		s.lock.Unlock()
		return ErrPaymentSettled
	}
	s.cycle++
	cycle := s.cycle
	s.phase = PhaseProcessing
	s.payment = nil
	s.message = ""
	s.startedAt = s.poller.clock.Now()
	s.lock.Unlock()

	slog.Info("PAYMENT POLLER", "message", "submitting payment", "sessionID", s.ID, "clientID", s.ClientID, "amount", amount)
	payment, err := s.poller.api.CreatePayment(ctx, s.ClientID, amount)

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed || cycle != s.cycle {
		return err
	}
	if err != nil {
		s.failLocked(apierrors.DisplayMessage(err, defaultErrorMessage))
		slog.Error("PAYMENT POLLER", "message", "CreatePayment failed", "sessionID", s.ID, "error", err)
		return err
	}
	s.applyLocked(payment)
	if s.phase != PhaseProcessing {
		return nil
	}
	return s.startPollingLocked(cycle)
}

// startPollingLocked replaces any running ticker with a new one for the cycle.
func (s *PollSession) startPollingLocked(cycle int) error {
	s.stopTickerLocked()
	ticker, err := s.poller.scheduler.Start(s.poller.PollInterval, func() {
		s.tick(cycle)
	})
	if err != nil {
		s.failLocked(defaultErrorMessage)
		return err
	}
	s.ticker = ticker
	return nil
}

func (s *PollSession) tick(cycle int) {
	s.lock.Lock()
	if s.closed || cycle != s.cycle || s.phase != PhaseProcessing || s.checking || s.payment == nil {
		s.lock.Unlock()
		return
	}
	if s.poller.PollTimeout > 0 && s.poller.clock.Now().Sub(s.startedAt) > s.poller.PollTimeout {
		s.failLocked(timeoutMessage)
		s.lock.Unlock()
		slog.Info("PAYMENT POLLER", "message", "payment timed out", "sessionID", s.ID, "paymentID", s.payment.ID)
		return
	}
	s.checking = true
	paymentID := s.payment.ID
	ctx := s.ctx
	s.lock.Unlock()

	payment, err := s.poller.api.GetClientPayment(ctx, s.ClientID, paymentID)

	s.lock.Lock()
	defer s.lock.Unlock()
	s.checking = false
	if s.closed || cycle != s.cycle || s.phase != PhaseProcessing {
		return
	}
	if err != nil {
		slog.Error("PAYMENT POLLER", "message", "GetClientPayment failed", "sessionID", s.ID, "paymentID", paymentID, "error", err)
		s.failLocked(apierrors.DisplayMessage(err, "cannot check the payment status"))
		return
	}
	s.applyLocked(payment)
}

// applyLocked stores the snapshot and moves to the phase matching its status.
func (s *PollSession) applyLocked(payment models.Payment) {
	s.payment = &payment
	switch payment.Status {
	case models.PaymentCompleted:
		s.stopTickerLocked()
		s.phase = PhaseCompleted
		s.message = ""
		slog.Info("PAYMENT POLLER", "message", "payment completed", "sessionID", s.ID, "paymentID", payment.ID)
		s.scheduleCompletionLocked(s.cycle, payment)
	case models.PaymentFailed:
		message := payment.FailureMessage()
		if message == "" {
			message = defaultFailedMessage
		}
		slog.Info("PAYMENT POLLER", "message", "payment failed", "sessionID", s.ID, "paymentID", payment.ID, "reason", message)
		s.failLocked(message)
	default:
		slog.Debug("PAYMENT POLLER", "message", "payment still processing", "sessionID", s.ID, "paymentID", payment.ID, "status", payment.Status)
	}
}

func (s *PollSession) scheduleCompletionLocked(cycle int, payment models.Payment) {
	if s.onCompleted == nil {
		return
	}
	s.timer = s.poller.clock.AfterFunc(s.poller.DisplayDelay, func() {
		s.lock.Lock()
		if s.closed || cycle != s.cycle || s.timer == nil {
			s.lock.Unlock()
			return
		}
		s.timer = nil
		s.lock.Unlock()
		s.onCompleted(payment)
	})
}

func (s *PollSession) failLocked(message string) {
	s.stopTickerLocked()
	s.phase = PhaseFailed
	s.message = message
}

func (s *PollSession) stopTickerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *PollSession) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Reset moves a settled session back to idle so that the payment can be retried.
func (s *PollSession) Reset() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.phase == PhaseProcessing {
		return ErrPaymentInProgress
	}
	s.stopTickerLocked()
	s.stopTimerLocked()
	s.cycle++
	s.phase = PhaseIdle
	s.payment = nil
	s.message = ""
	return nil
}

// Close tears the session down. No status check or completion callback runs afterwards.
func (s *PollSession) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTickerLocked()
	s.stopTimerLocked()
	s.cancel()
	slog.Debug("PAYMENT POLLER", "message", "poll session closed", "sessionID", s.ID)
}

// finish runs a pending completion callback right away and closes the session.
func (s *PollSession) finish() {
	s.lock.Lock()
	pending := !s.closed && s.timer != nil && s.payment != nil
	var payment models.Payment
	if pending {
		s.stopTimerLocked()
		payment = *s.payment
	}
	s.lock.Unlock()
	if pending {
		s.onCompleted(payment)
	}
	s.Close()
}

// Closed checks if the session was torn down.
func (s *PollSession) Closed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}
