package statistics

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/premiumshare/paytracker/internal/models"
)

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// WriteCSV exports the summary followed by the payments table, newest payments first.
// The client names are resolved from the clients list when possible.
func WriteCSV(w io.Writer, clients []models.Client, payments []models.Payment, currency string) error {
	summary := Summarize(clients, payments)
	names := make(map[string]string, len(clients))
	for _, client := range clients {
		names[client.ID] = client.Name
	}

	writer := csv.NewWriter(w)
	rows := [][]string{
		{"total_clients", "active_clients", "inactive_clients", "total_payments", "total_revenue", "average_payment", "currency"},
		{
			strconv.Itoa(summary.TotalClients),
			strconv.Itoa(summary.ActiveClients),
			strconv.Itoa(summary.InactiveClients),
			strconv.Itoa(summary.TotalPayments),
			formatAmount(summary.TotalRevenue),
			formatAmount(summary.AveragePayment),
			currency,
		},
		{},
		{"payment_id", "client_id", "client_name", "amount", "status", "payment_date"},
	}
	for _, payment := range SortNewestFirst(payments) {
		date := ""
		if !payment.Date().IsZero() {
			date = payment.Date().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			payment.ID,
			payment.OwnerID(),
			names[payment.OwnerID()],
			formatAmount(payment.Amount),
			string(payment.Status),
			date,
		})
	}
	err := writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("cannot write the statistics export: %w", err)
	}
	return nil
}

// SortNewestFirst returns a copy of the payments ordered by date, newest first.
func SortNewestFirst(payments []models.Payment) []models.Payment {
	output := make([]models.Payment, len(payments))
	copy(output, payments)
	sort.SliceStable(output, func(i, j int) bool {
		return output[i].Date().After(output[j].Date())
	})
	return output
}
