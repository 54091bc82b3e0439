package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/statistics"
	"github.com/premiumshare/paytracker/internal/utils"
)

type DashboardResponse struct {
	Clients       []models.Client `json:"clients"`
	DefaultAmount float64         `json:"default_amount"`
	Currency      string          `json:"currency"`
}

type ClientDetails struct {
	Client   models.Client    `json:"client"`
	Payments []models.Payment `json:"payments"`
}

func (s *Server) GetDashboard(c echo.Context) error {
	clients, err := s.api.ListClients(utils.RequestContext(c))
	if err != nil {
		return s.renderError(c, err, "cannot load the clients")
	}
	return c.JSON(http.StatusOK, DashboardResponse{
		Clients:       clients,
		DefaultAmount: s.registry.Poller().DefaultAmount,
		Currency:      s.currency,
	})
}

func (s *Server) PostClient(c echo.Context) error {
	var req models.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the client is malformed"})
	}
	client, err := s.api.CreateClient(utils.RequestContext(c), req)
	if err != nil {
		return s.renderError(c, err, "cannot create the client")
	}
	return c.JSON(http.StatusCreated, client)
}

// GetClient returns the client with its payments, newest first.
func (s *Server) GetClient(c echo.Context) error {
	ctx := utils.RequestContext(c)
	clientID := c.Param("id")
	client, err := s.api.GetClient(ctx, clientID)
	if err != nil {
		return s.renderError(c, err, "cannot load the client")
	}
	clientPayments, err := s.api.ListClientPayments(ctx, clientID)
	if err != nil {
		return s.renderError(c, err, "cannot load the payments of the client")
	}
	return c.JSON(http.StatusOK, ClientDetails{Client: client, Payments: statistics.SortNewestFirst(clientPayments)})
}

func (s *Server) PutClient(c echo.Context) error {
	var req models.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the client is malformed"})
	}
	client, err := s.api.UpdateClient(utils.RequestContext(c), c.Param("id"), req)
	if err != nil {
		return s.renderError(c, err, "cannot update the client")
	}
	return c.JSON(http.StatusOK, client)
}

func (s *Server) DeleteClient(c echo.Context) error {
	clientID := c.Param("id")
	err := s.api.DeleteClient(utils.RequestContext(c), clientID)
	if err != nil {
		return s.renderError(c, err, "cannot delete the client")
	}
	s.registry.Remove(clientID)
	return c.NoContent(http.StatusNoContent)
}
