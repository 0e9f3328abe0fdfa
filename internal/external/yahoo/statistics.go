package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// scrapeStatistics is the fallback path for fundamentals: parse the
// key-statistics page tables when the quoteSummary API refuses us. The
// page carries fewer fields than the API, but enough for Value and
// Quality factors.
func (c *Client) scrapeStatistics(ctx context.Context, ticker string) (contracts.FundamentalsRecord, error) {
	fullURL := fmt.Sprintf("%s/quote/%s/key-statistics", c.pageURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return contracts.FundamentalsRecord{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return contracts.FundamentalsRecord{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.FundamentalsRecord{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return contracts.FundamentalsRecord{}, fmt.Errorf("parse HTML failed: %w", err)
	}

	return parseStatisticsDoc(ticker, doc)
}

// parseStatisticsDoc walks every two-column table row and matches labels.
func parseStatisticsDoc(ticker string, doc *goquery.Document) (contracts.FundamentalsRecord, error) {
	rec := contracts.EmptyFundamentals(ticker)
	found := 0

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Last().Text())
		if target := statisticsField(&rec, label); target != nil {
			if v, ok := parseStatValue(value); ok {
				*target = &v
				found++
			}
		}
	})

	if found == 0 {
		return contracts.FundamentalsRecord{}, fmt.Errorf("no statistics rows recognized")
	}
	return rec, nil
}

// statisticsField maps a row label prefix onto the record slot it fills.
func statisticsField(rec *contracts.FundamentalsRecord, label string) **float64 {
	switch {
	case strings.HasPrefix(label, "Market Cap"):
		return &rec.MarketCap
	case strings.HasPrefix(label, "Trailing P/E"):
		return &rec.PERatio
	case strings.HasPrefix(label, "Price/Book"):
		return &rec.PBRatio
	case strings.HasPrefix(label, "Return on Equity"):
		return &rec.ROE
	case strings.HasPrefix(label, "Profit Margin"):
		return &rec.NetMargin
	case strings.HasPrefix(label, "Total Debt/Equity"):
		return &rec.DebtRatio
	case strings.HasPrefix(label, "Forward Annual Dividend Yield"):
		return &rec.DividendYield
	case strings.HasPrefix(label, "Beta"):
		return &rec.Beta
	case strings.HasPrefix(label, "Diluted EPS"):
		return &rec.EPS
	case strings.HasPrefix(label, "52 Week High"):
		return &rec.High52W
	case strings.HasPrefix(label, "52 Week Low"):
		return &rec.Low52W
	}
	return nil
}

// parseStatValue handles Yahoo's display formats: thousands separators,
// T/B/M/k magnitude suffixes, and trailing percent signs. Percent values
// come back as fractions to match the API's raw convention.
func parseStatValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || s == "--" || s == "∞" {
		return 0, false
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		scale, s = 1e12, strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		scale, s = 1e9, strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		scale, s = 1e6, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "k"):
		scale, s = 1e3, strings.TrimSuffix(s, "k")
	}

	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	v *= scale
	if percent {
		v /= 100
	}
	return v, true
}
