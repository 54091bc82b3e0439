// Package statistics aggregates the clients and payments of the operator into the figures
// shown on the statistics page.
package statistics

import (
	"fmt"
	"time"

	"github.com/premiumshare/paytracker/internal/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// upcomingWindow is how far ahead a payment day counts as upcoming
const upcomingWindow = 3 * 24 * time.Hour

func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(value), nil
	default:
		return "", fmt.Errorf("unknown period %q, use week, month or year", value)
	}
}

// Since returns the start of the period that ends at now.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

type Summary struct {
	TotalClients    int     `json:"total_clients"`
	ActiveClients   int     `json:"active_clients"`
	InactiveClients int     `json:"inactive_clients"`
	TotalPayments   int     `json:"total_payments"`
	TotalRevenue    float64 `json:"total_revenue"`
	AveragePayment  float64 `json:"average_payment"`
}

type MonthlyBucket struct {
	Month    string  `json:"month"`
	Payments int     `json:"payments"`
	Revenue  float64 `json:"revenue"`
}

type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type WeekdayCount struct {
	Weekday  string `json:"weekday"`
	Payments int    `json:"payments"`
}

type ClientAlert struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	DayToPay int    `json:"day_to_pay"`
}

type Alerts struct {
	Upcoming      []ClientAlert `json:"upcoming"`
	Overdue       []ClientAlert `json:"overdue"`
	NegativeTrend bool          `json:"negative_trend"`
}

type Report struct {
	Period       Period          `json:"period"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Summary      Summary         `json:"summary"`
	Monthly      []MonthlyBucket `json:"monthly"`
	RevenueTrend []DailyRevenue  `json:"revenue_trend"`
	PaymentDays  []WeekdayCount  `json:"payment_days"`
	Distribution map[string]int  `json:"distribution"`
	Alerts       Alerts          `json:"alerts"`
	Empty        bool            `json:"empty"`
}

// Build computes the report. The summary and the alerts cover all the data, the charts only
// the payments made within the period.
func Build(clients []models.Client, payments []models.Payment, period Period, now time.Time) Report {
	summary := Summarize(clients, payments)
	inPeriod := FilterPeriod(payments, period, now)
	return Report{
		Period:       period,
		GeneratedAt:  now,
		Summary:      summary,
		Monthly:      Monthly(inPeriod),
		RevenueTrend: RevenueTrend(inPeriod),
		PaymentDays:  PaymentDays(inPeriod),
		Distribution: map[string]int{
			string(models.ClientActive):   summary.ActiveClients,
			string(models.ClientInactive): summary.InactiveClients,
		},
		Alerts: Alerts{
			Upcoming:      Upcoming(clients, now),
			Overdue:       Overdue(clients, now),
			NegativeTrend: NegativeTrend(payments, now),
		},
		Empty: len(clients) == 0 && len(payments) == 0,
	}
}

func Summarize(clients []models.Client, payments []models.Payment) Summary {
	summary := Summary{TotalClients: len(clients), TotalPayments: len(payments)}
	for _, client := range clients {
		if client.Active() {
			summary.ActiveClients++
		}
	}
	summary.InactiveClients = summary.TotalClients - summary.ActiveClients
	for _, payment := range payments {
		summary.TotalRevenue += payment.Amount
	}
	if len(payments) > 0 {
		summary.AveragePayment = summary.TotalRevenue / float64(len(payments))
	}
	return summary
}

// FilterPeriod keeps the payments made between the start of the period and now.
func FilterPeriod(payments []models.Payment, period Period, now time.Time) []models.Payment {
	since := period.Since(now)
	output := []models.Payment{}
	for _, payment := range payments {
		date := payment.Date()
		if date.IsZero() || date.Before(since) || date.After(now) {
			continue
		}
		output = append(output, payment)
	}
	return output
}

// Monthly groups the payments by month, in the order in which the months first appear.
func Monthly(payments []models.Payment) []MonthlyBucket {
	buckets := orderedmap.New[string, MonthlyBucket]()
	for _, payment := range payments {
		key := payment.Date().Format("January 2006")
		bucket, _ := buckets.Get(key)
		bucket.Month = key
		bucket.Payments++
		bucket.Revenue += payment.Amount
		buckets.Set(key, bucket)
	}
	return values(buckets)
}

func RevenueTrend(payments []models.Payment) []DailyRevenue {
	days := orderedmap.New[string, DailyRevenue]()
	for _, payment := range payments {
		key := payment.Date().Format("January 2")
		day, _ := days.Get(key)
		day.Day = key
		day.Revenue += payment.Amount
		days.Set(key, day)
	}
	return values(days)
}

func PaymentDays(payments []models.Payment) []WeekdayCount {
	days := orderedmap.New[string, WeekdayCount]()
	for _, payment := range payments {
		key := payment.Date().Weekday().String()
		day, _ := days.Get(key)
		day.Weekday = key
		day.Payments++
		days.Set(key, day)
	}
	return values(days)
}

func values[V any](m *orderedmap.OrderedMap[string, V]) []V {
	output := make([]V, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		output = append(output, pair.Value)
	}
	return output
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Upcoming lists the clients whose payment day this month falls within the next three days.
func Upcoming(clients []models.Client, now time.Time) []ClientAlert {
	today := startOfDay(now)
	limit := today.Add(upcomingWindow)
	output := []ClientAlert{}
	for _, client := range clients {
		due := client.PaymentDueDate(now)
		if !due.Before(today) && !due.After(limit) {
			output = append(output, alert(client))
		}
	}
	return output
}

// Overdue lists the inactive clients whose payment day this month has already passed.
func Overdue(clients []models.Client, now time.Time) []ClientAlert {
	today := startOfDay(now)
	output := []ClientAlert{}
	for _, client := range clients {
		if client.Active() {
			continue
		}
		if client.PaymentDueDate(now).Before(today) {
			output = append(output, alert(client))
		}
	}
	return output
}

// NegativeTrend checks whether fewer payments were made this month than in the previous one.
func NegativeTrend(payments []models.Payment, now time.Time) bool {
	year, month, _ := now.Date()
	currentMonth := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	lastMonth := currentMonth.AddDate(0, -1, 0)
	current, previous := 0, 0
	for _, payment := range payments {
		date := payment.Date()
		switch {
		case date.IsZero():
		case !date.Before(currentMonth):
			current++
		case !date.Before(lastMonth):
			previous++
		}
	}
	return current < previous
}

func alert(client models.Client) ClientAlert {
	return ClientAlert{ClientID: client.ID, Name: client.Name, DayToPay: client.DayToPay}
}
