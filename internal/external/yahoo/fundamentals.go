package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number envelope.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName    string   `json:"shortName"`
				LongName     string   `json:"longName"`
				Currency     string   `json:"currency"`
				ExchangeName string   `json:"exchangeName"`
				MarketCap    rawValue `json:"marketCap"`
			} `json:"price"`
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Country  string `json:"country"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				TrailingPE       rawValue `json:"trailingPE"`
				DividendYield    rawValue `json:"dividendYield"`
				Beta             rawValue `json:"beta"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			KeyStatistics *struct {
				PriceToBook rawValue `json:"priceToBook"`
				TrailingEPS rawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
				ProfitMargins     rawValue `json:"profitMargins"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals fetches a ticker's fundamentals snapshot. Every field
// is independently optional; a total failure yields the all-null record
// and never an error to the caller — graceful degradation is the contract.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) contracts.FundamentalsRecord {
	rec, err := c.fetchQuoteSummary(ctx, ticker)
	if err == nil {
		return rec
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"error":  err.Error(),
	}).Debug("quoteSummary failed, trying HTML statistics page")

	rec, err = c.scrapeStatistics(ctx, ticker)
	if err == nil {
		return rec
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"error":  err.Error(),
	}).Warn("Fundamentals unavailable, scoring with all-null record")

	return contracts.EmptyFundamentals(ticker)
}

func (c *Client) fetchQuoteSummary(ctx context.Context, ticker string) (contracts.FundamentalsRecord, error) {
	params := url.Values{}
	params.Set("modules", "price,assetProfile,summaryDetail,defaultKeyStatistics,financialData")

	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		c.baseURL, url.PathEscape(ticker), params.Encode())

	body, err := c.getJSON(ctx, fullURL)
	if err != nil {
		return contracts.FundamentalsRecord{}, err
	}

	return parseQuoteSummary(ticker, body)
}

func parseQuoteSummary(ticker string, body []byte) (contracts.FundamentalsRecord, error) {
	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.FundamentalsRecord{}, fmt.Errorf("parse quoteSummary failed: %w", err)
	}

	if parsed.QuoteSummary.Error != nil {
		return contracts.FundamentalsRecord{}, fmt.Errorf("quoteSummary API error: %s", parsed.QuoteSummary.Error.Code)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return contracts.FundamentalsRecord{}, fmt.Errorf("quoteSummary has no result")
	}

	result := parsed.QuoteSummary.Result[0]
	rec := contracts.EmptyFundamentals(ticker)

	if p := result.Price; p != nil {
		rec.Name = p.ShortName
		if rec.Name == "" {
			rec.Name = p.LongName
		}
		rec.Currency = p.Currency
		rec.Exchange = p.ExchangeName
		rec.MarketCap = p.MarketCap.Raw
	}
	if a := result.AssetProfile; a != nil {
		rec.Sector = a.Sector
		rec.Industry = a.Industry
		rec.Country = a.Country
	}
	if s := result.SummaryDetail; s != nil {
		rec.PERatio = s.TrailingPE.Raw
		rec.DividendYield = s.DividendYield.Raw
		rec.Beta = s.Beta.Raw
		rec.High52W = s.FiftyTwoWeekHigh.Raw
		rec.Low52W = s.FiftyTwoWeekLow.Raw
	}
	if k := result.KeyStatistics; k != nil {
		rec.PBRatio = k.PriceToBook.Raw
		rec.EPS = k.TrailingEPS.Raw
	}
	if f := result.FinancialData; f != nil {
		rec.ROE = f.ReturnOnEquity.Raw
		rec.NetMargin = f.ProfitMargins.Raw
		rec.DebtRatio = f.DebtToEquity.Raw
		rec.Recommendation = f.RecommendationKey
	}

	return rec, nil
}
