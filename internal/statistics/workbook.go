package statistics

import (
	"fmt"
	"io"
	"time"

	"github.com/premiumshare/paytracker/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet  string = "Summary"
	ClientsSheet  string = "Clients"
	PaymentsSheet string = "Payments"
)

const unknownClient string = "unknown"

// WriteWorkbook exports the statistics as an Excel workbook with a summary sheet, a clients
// sheet and a payments sheet, newest payments first.
func WriteWorkbook(w io.Writer, clients []models.Client, payments []models.Payment, currency string, now time.Time) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("cannot create the header style: %w", err)
	}

	summary := Summarize(clients, payments)
	err = f.SetSheetName("Sheet1", SummarySheet)
	if err != nil {
		return err
	}
	err = writeRows(f, SummarySheet, header, [][]any{
		{"Metric", "Value"},
		{"Total clients", summary.TotalClients},
		{"Active clients", summary.ActiveClients},
		{"Inactive clients", summary.InactiveClients},
		{"Total payments", summary.TotalPayments},
		{"Total revenue", summary.TotalRevenue},
		{"Average payment", summary.AveragePayment},
		{"Currency", currency},
		{"Generated at", now.Format(time.RFC3339)},
	})
	if err != nil {
		return err
	}

	clientRows := [][]any{{"Name", "Phone", "Payment day", "Status", "Last payment"}}
	names := make(map[string]string, len(clients))
	for _, client := range clients {
		names[client.ID] = client.Name
		lastPayment := "never"
		if !client.LastPaymentDate.IsZero() {
			lastPayment = client.LastPaymentDate.Format("2006-01-02")
		}
		clientRows = append(clientRows, []any{client.Name, client.CellPhone, client.DayToPay, string(client.Status), lastPayment})
	}
	if _, err = f.NewSheet(ClientsSheet); err != nil {
		return err
	}
	if err = writeRows(f, ClientsSheet, header, clientRows); err != nil {
		return err
	}

	paymentRows := [][]any{{"Payment", "Client", "Amount", "Date", "Status"}}
	for _, payment := range SortNewestFirst(payments) {
		name, found := names[payment.OwnerID()]
		if !found {
			name = unknownClient
		}
		date := ""
		if !payment.Date().IsZero() {
			date = payment.Date().Format(time.RFC3339)
		}
		paymentRows = append(paymentRows, []any{payment.ID, name, payment.Amount, date, string(payment.Status)})
	}
	if _, err = f.NewSheet(PaymentsSheet); err != nil {
		return err
	}
	if err = writeRows(f, PaymentsSheet, header, paymentRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	err = f.Write(w)
	if err != nil {
		return fmt.Errorf("cannot write the statistics workbook: %w", err)
	}
	return nil
}

// writeRows fills the sheet from the first cell on, the first row is the header.
func writeRows(f *excelize.File, sheet string, headerStyle int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		err = f.SetSheetRow(sheet, cell, &values)
		if err != nil {
			return fmt.Errorf("cannot write row %d of %s: %w", i+1, sheet, err)
		}
	}
	err := f.SetRowStyle(sheet, 1, 1, headerStyle)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "E", 20)
}
