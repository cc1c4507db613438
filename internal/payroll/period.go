package payroll

import (
	"time"

	"github.com/ThiagoRGoveia/payroll-reports/internal/models"
)

const firstPeriodLastDay = 15

// ResolvePayPeriod returns the semi-monthly period that contains d. Days 1-15 fall in the
// first half of the month, everything after in the second half, which ends on the last
// calendar day of the month. Time of day and location are discarded.
func ResolvePayPeriod(d time.Time) models.PayPeriod {
	year, month, day := d.Date()

	if day <= firstPeriodLastDay {
		return models.PayPeriod{
			StartDate: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(year, month, firstPeriodLastDay, 0, 0, 0, 0, time.UTC),
		}
	}

	firstOfNextMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return models.PayPeriod{
		StartDate: time.Date(year, month, firstPeriodLastDay+1, 0, 0, 0, 0, time.UTC),
		EndDate:   firstOfNextMonth.AddDate(0, 0, -1),
	}
}
