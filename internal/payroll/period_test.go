package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestResolvePayPeriod(t *testing.T) {
	t.Run("Expect: ResolvePayPeriod to place days 1 to 15 in the first half", func(t *testing.T) {
		for _, day := range []int{1, 5, 15} {
			period := ResolvePayPeriod(date(2023, time.November, day))

			assert.Equal(t, date(2023, time.November, 1), period.StartDate)
			assert.Equal(t, date(2023, time.November, 15), period.EndDate)
		}
	})

	t.Run("Expect: ResolvePayPeriod to place days after the 15th in the second half", func(t *testing.T) {
		period := ResolvePayPeriod(date(2023, time.November, 18))

		assert.Equal(t, date(2023, time.November, 16), period.StartDate)
		assert.Equal(t, date(2023, time.November, 30), period.EndDate)
	})

	t.Run("Expect: ResolvePayPeriod to end December on the 31st", func(t *testing.T) {
		period := ResolvePayPeriod(date(2023, time.December, 18))

		assert.Equal(t, date(2023, time.December, 16), period.StartDate)
		assert.Equal(t, date(2023, time.December, 31), period.EndDate)
	})

	t.Run("Expect: ResolvePayPeriod to handle february in common and leap years", func(t *testing.T) {
		assert.Equal(t, date(2023, time.February, 28), ResolvePayPeriod(date(2023, time.February, 20)).EndDate)
		assert.Equal(t, date(2024, time.February, 29), ResolvePayPeriod(date(2024, time.February, 29)).EndDate)
		assert.Equal(t, date(1900, time.February, 28), ResolvePayPeriod(date(1900, time.February, 16)).EndDate)
		assert.Equal(t, date(2000, time.February, 29), ResolvePayPeriod(date(2000, time.February, 16)).EndDate)
	})

	t.Run("Expect: ResolvePayPeriod to ignore time of day and location", func(t *testing.T) {
		loc := time.FixedZone("UTC-3", -3*60*60)
		period := ResolvePayPeriod(time.Date(2024, time.January, 15, 23, 59, 0, 0, loc))

		assert.Equal(t, date(2024, time.January, 1), period.StartDate)
		assert.Equal(t, date(2024, time.January, 15), period.EndDate)
	})

	t.Run("Expect: ResolvePayPeriod to cover every day of the year without gaps or overlaps", func(t *testing.T) {
		for _, year := range []int{2023, 2024} {
			day := date(year, time.January, 1)
			previous := ResolvePayPeriod(day)
			assert.Equal(t, day, previous.StartDate)

			for day.Year() == year {
				period := ResolvePayPeriod(day)

				assert.False(t, day.Before(period.StartDate), "start after date %s", day)
				assert.False(t, day.After(period.EndDate), "end before date %s", day)
				assert.Equal(t, period.StartDate.Month(), period.EndDate.Month(), "period spans months for %s", day)

				if period.StartDate != previous.StartDate {
					assert.Equal(t, previous.EndDate.AddDate(0, 0, 1), period.StartDate, "gap or overlap at %s", day)
				}
				previous = period
				day = day.AddDate(0, 0, 1)
			}

			assert.Equal(t, date(year, time.December, 31), previous.EndDate)
		}
	})
}
