package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

const currencySymbol = "$"

type periodKey struct {
	employeeID string
	start      time.Time
	end        time.Time
}

// GenerateReport buckets records into pay periods, sums the pay per employee and period
// and returns the entries ordered by employee id then period start, both compared as
// strings. Only periods with at least one record are reported.
func GenerateReport(records []models.TimeRecord) models.PayrollReport {
	return DefaultRateTable.GenerateReport(records)
}

func (t RateTable) GenerateReport(records []models.TimeRecord) models.PayrollReport {
	totals := make(map[periodKey]decimal.Decimal)

	for _, record := range records {
		period := ResolvePayPeriod(record.Date)
		amount := decimal.NewFromFloat(record.HoursWorked).Mul(t.HourlyRate(record.JobGroup))

		key := periodKey{employeeID: record.EmployeeID, start: period.StartDate, end: period.EndDate}
		totals[key] = totals[key].Add(amount)
	}

	reports := make([]models.EmployeeReport, 0, len(totals))
	for key, amount := range totals {
		reports = append(reports, models.EmployeeReport{
			EmployeeID: key.employeeID,
			PayPeriod:  models.PayPeriod{StartDate: key.start, EndDate: key.end},
			AmountPaid: FormatAmount(amount),
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].EmployeeID != reports[j].EmployeeID {
			return reports[i].EmployeeID < reports[j].EmployeeID
		}
		return reports[i].PayPeriod.StartDate.Format(models.DateLayout) < reports[j].PayPeriod.StartDate.Format(models.DateLayout)
	})

	return models.PayrollReport{EmployeeReports: reports}
}

// FormatAmount renders a currency amount with exactly two fraction digits, e.g. "$100.00".
func FormatAmount(amount decimal.Decimal) string {
	return currencySymbol + amount.StringFixed(2)
}
