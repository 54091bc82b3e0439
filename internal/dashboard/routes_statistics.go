package dashboard

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/statistics"
	"github.com/premiumshare/paytracker/internal/utils"
)

func (s *Server) loadAll(c echo.Context) ([]models.Client, []models.Payment, error) {
	ctx := utils.RequestContext(c)
	clients, err := s.api.ListClients(ctx)
	if err != nil {
		return nil, nil, err
	}
	allPayments, err := s.api.ListPayments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return clients, allPayments, nil
}

func (s *Server) GetStatistics(c echo.Context) error {
	period, err := statistics.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "period"})
	}
	clients, allPayments, err := s.loadAll(c)
	if err != nil {
		return s.renderError(c, err, "cannot load the statistics")
	}
	return c.JSON(http.StatusOK, statistics.Build(clients, allPayments, period, s.now()))
}

func (s *Server) GetStatisticsExport(c echo.Context) error {
	clients, allPayments, err := s.loadAll(c)
	if err != nil {
		return s.renderError(c, err, "cannot load the statistics")
	}
	var buf bytes.Buffer
	err = statistics.WriteCSV(&buf, clients, allPayments, s.currency)
	if err != nil {
		return s.renderError(c, err, "cannot export the statistics")
	}
	filename := fmt.Sprintf("statistics-%s.csv", s.now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

const xlsxContentType string = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) GetStatisticsWorkbook(c echo.Context) error {
	clients, allPayments, err := s.loadAll(c)
	if err != nil {
		return s.renderError(c, err, "cannot load the statistics")
	}
	now := s.now()
	var buf bytes.Buffer
	err = statistics.WriteWorkbook(&buf, clients, allPayments, s.currency, now)
	if err != nil {
		return s.renderError(c, err, "cannot export the statistics")
	}
	filename := fmt.Sprintf("statistics-%s.xlsx", now.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
