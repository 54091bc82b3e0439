package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/payments"
	"github.com/premiumshare/paytracker/internal/statistics"
	"github.com/premiumshare/paytracker/internal/utils"
)

type PaymentRequest struct {
	Amount *float64 `json:"amount,omitempty"`
}

// PaymentStateResponse carries the error of the last action next to the session state.
type PaymentStateResponse struct {
	payments.State
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// PostPayment submits a payment for the client. Without an amount the default one is used.
// The response is sent once the payment is created, the status is then polled in the background.
func (s *Server) PostPayment(c echo.Context) error {
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the payment is malformed"})
	}
	amount := s.registry.Poller().DefaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	clientID := c.Param("id")
	requestID := utils.GetRequestID(c)
	var session *payments.PollSession
	session, err := s.registry.Open(clientID, func(payment models.Payment) {
		slog.Info("DASHBOARD", "message", "payment completed", "clientID", clientID, "paymentID", payment.ID, "requestID", requestID)
		s.registry.Release(session)
	})
	if err != nil {
		return s.renderError(c, err, "cannot start the payment")
	}
	err = session.Submit(utils.RequestContext(c), amount)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentInProgress) || errors.Is(err, payments.ErrPaymentSettled) {
			return c.JSON(statusCode(err), PaymentStateResponse{State: session.State(), Error: err.Error()})
		}
		state := session.State()
		if state.Phase == payments.PhaseFailed && !sessionLost(err) {
			return c.JSON(statusCode(err), PaymentStateResponse{State: state, Error: state.Message})
		}
		return s.renderError(c, err, "cannot start the payment")
	}
	return c.JSON(http.StatusAccepted, s.stateResponse(session.State()))
}

func (s *Server) GetPaymentState(c echo.Context) error {
	session, found := s.registry.Get(c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, PaymentStateResponse{
			State:    payments.State{ClientID: c.Param("id"), Phase: payments.PhaseIdle},
			Redirect: DashboardPath,
		})
	}
	return c.JSON(http.StatusOK, s.stateResponse(session.State()))
}

// PostPaymentRetry moves a failed payment back to idle.
func (s *Server) PostPaymentRetry(c echo.Context) error {
	session, found := s.registry.Get(c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "there is no payment to retry"})
	}
	err := session.Reset()
	if err != nil {
		return c.JSON(statusCode(err), PaymentStateResponse{State: session.State(), Error: err.Error()})
	}
	return c.JSON(http.StatusOK, s.stateResponse(session.State()))
}

func (s *Server) DeletePaymentSession(c echo.Context) error {
	if !s.registry.Remove(c.Param("id")) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "there is no payment for this client"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) stateResponse(state payments.State) PaymentStateResponse {
	output := PaymentStateResponse{State: state}
	if state.Phase == payments.PhaseCompleted {
		output.Redirect = DashboardPath
	}
	return output
}

// GetPaymentHistory lists all payments newest first, optionally only those of one client.
func (s *Server) GetPaymentHistory(c echo.Context) error {
	all, err := s.api.ListPayments(utils.RequestContext(c))
	if err != nil {
		return s.renderError(c, err, "cannot load the payment history")
	}
	clientID := c.QueryParam("client_id")
	history := []models.Payment{}
	for _, payment := range all {
		if clientID == "" || payment.OwnerID() == clientID {
			history = append(history, payment)
		}
	}
	return c.JSON(http.StatusOK, statistics.SortNewestFirst(history))
}

func (s *Server) GetPayment(c echo.Context) error {
	payment, err := s.api.GetPayment(utils.RequestContext(c), c.Param("id"))
	if err != nil {
		return s.renderError(c, err, "cannot load the payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// PostPaymentRecord registers a payment received outside of the payment flow, it is not polled.
func (s *Server) PostPaymentRecord(c echo.Context) error {
	var req models.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the payment is malformed"})
	}
	payment, err := s.api.RecordPayment(utils.RequestContext(c), req)
	if err != nil {
		return s.renderError(c, err, "cannot record the payment")
	}
	return c.JSON(http.StatusCreated, payment)
}

func (s *Server) PutPayment(c echo.Context) error {
	var req models.UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the payment is malformed"})
	}
	payment, err := s.api.UpdatePayment(utils.RequestContext(c), c.Param("id"), req)
	if err != nil {
		return s.renderError(c, err, "cannot update the payment")
	}
	return c.JSON(http.StatusOK, payment)
}

func (s *Server) DeletePayment(c echo.Context) error {
	err := s.api.DeletePayment(utils.RequestContext(c), c.Param("id"))
	if err != nil {
		return s.renderError(c, err, "cannot delete the payment")
	}
	return c.NoContent(http.StatusNoContent)
}
