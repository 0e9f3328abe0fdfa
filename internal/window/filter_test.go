package window

import (
	"testing"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailySeries(ticker string, from time.Time, n int) contracts.PriceSeries {
	obs := make([]contracts.Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, contracts.Observation{
			Date:  from.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	return contracts.NewPriceSeries(ticker, obs)
}

func TestShiftMonthsClampsEndOfMonth(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Time
		months int
		want   time.Time
	}{
		{"mar 31 minus 1mo lands on feb 29 (leap)", day(2024, 3, 31), -1, day(2024, 2, 29)},
		{"mar 31 minus 1mo lands on feb 28", day(2023, 3, 31), -1, day(2023, 2, 28)},
		{"may 31 minus 3mo lands on feb 29", day(2024, 5, 31), -3, day(2024, 2, 29)},
		{"jan 15 minus 3mo crosses year", day(2024, 1, 15), -3, day(2023, 10, 15)},
		{"jan 31 minus 12mo", day(2024, 1, 31), -12, day(2023, 1, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftMonths(tt.in, tt.months); !got.Equal(tt.want) {
				t.Errorf("ShiftMonths(%v, %d) = %v, want %v", tt.in, tt.months, got, tt.want)
			}
		})
	}
}

func TestShiftYearsClampsLeapDay(t *testing.T) {
	if got := ShiftYears(day(2024, 2, 29), -1); !got.Equal(day(2023, 2, 28)) {
		t.Errorf("ShiftYears(2024-02-29, -1) = %v, want 2023-02-28", got)
	}
}

func TestSeriesOneYearWindowIsCalendarNotFixedDays(t *testing.T) {
	// 400 daily observations ending 2024-06-29; the window must keep
	// exactly the observations on/after 2023-06-29 (a leap year sits in
	// between, so a fixed 365-day cutoff would differ by one day).
	start := day(2023, 5, 27)
	s := dailySeries("AAPL", start, 400)

	last := s.Last().Date
	if !last.Equal(day(2024, 6, 29)) {
		t.Fatalf("fixture last = %v", last)
	}

	got := Series(s, contracts.Window1Y)

	wantCutoff := day(2023, 6, 29)
	if got.First().Date.Before(wantCutoff) {
		t.Errorf("first kept = %v, want >= %v", got.First().Date, wantCutoff)
	}
	// The observation exactly on the cutoff is kept (>= contract).
	if !got.First().Date.Equal(wantCutoff) {
		t.Errorf("first kept = %v, want exactly %v", got.First().Date, wantCutoff)
	}
	// 2024 is a leap year: one calendar year back spans 366 days here.
	if got.Len() != 367 {
		t.Errorf("kept %d observations, want 367 (366 days + inclusive bound)", got.Len())
	}
}

func TestSeriesFixedDayWindows(t *testing.T) {
	s := dailySeries("MSFT", day(2024, 1, 1), 30)

	got := Series(s, contracts.Window5D)
	if got.Len() != 6 {
		t.Errorf("5d window kept %d observations, want 6", got.Len())
	}

	got = Series(s, contracts.Window1D)
	if got.Len() != 2 {
		t.Errorf("1d window kept %d observations, want 2", got.Len())
	}
}

func TestSeriesEmptyInEmptyOut(t *testing.T) {
	got := Series(contracts.PriceSeries{Ticker: "X"}, contracts.Window1Y)
	if !got.Empty() {
		t.Errorf("empty series should stay empty, got %d observations", got.Len())
	}
}

func TestMatrixFiltersPerSeries(t *testing.T) {
	m := contracts.NewPriceMatrix()
	// Long history ending later vs short history ending earlier.
	m.Add(dailySeries("LONG", day(2022, 1, 1), 900))
	m.Add(dailySeries("SHORT", day(2023, 1, 1), 100))

	got := Matrix(m, contracts.Window1Mo)

	long, _ := got.Series("LONG")
	short, _ := got.Series("SHORT")

	// Each series anchors on its own last date.
	if !long.Last().Date.Equal(day(2024, 6, 18)) {
		t.Fatalf("LONG last = %v", long.Last().Date)
	}
	if long.First().Date.Before(ShiftMonths(long.Last().Date, -1)) {
		t.Error("LONG window truncated against the wrong anchor")
	}
	if short.First().Date.Before(ShiftMonths(short.Last().Date, -1)) {
		t.Error("SHORT window truncated against the wrong anchor")
	}
	if got.Len() != 2 {
		t.Errorf("matrix lost columns: %v", got.Tickers())
	}
}
