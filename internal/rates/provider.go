// Package rates fetches and caches currency and gold quotes against the
// base currency. Quotes come from the TCMB daily XML feed and a public
// gold-price JSON API; when either upstream is unreachable the provider
// falls back to conservative hardcoded values rather than failing callers.
package rates

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"sync"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/logger"

	"github.com/shopspring/decimal"
)

// Provider is the lookup the transfer engine converts through. It never
// errors on a missing code; callers map absence to domain.ErrRateUnavailable.
type Provider interface {
	GetAllRates(ctx context.Context) (map[string]domain.Rate, error)
}

// troyOunceGrams converts the gold ounce quote to grams.
var troyOunceGrams = decimal.RequireFromString("31.1035")

// goldBuyingSpread is the buying-side discount applied to the gram-gold quote.
var goldBuyingSpread = decimal.RequireFromString("0.98")

type HTTPProvider struct {
	client  *http.Client
	tcmbURL string
	goldURL string
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	cached    map[string]domain.Rate
	fetchedAt time.Time
}

// NewHTTPProvider builds a provider with a TTL cache. The clock is injected
// so tests can control expiry.
func NewHTTPProvider(tcmbURL, goldURL string, ttl, timeout time.Duration, now func() time.Time) *HTTPProvider {
	if now == nil {
		now = time.Now
	}
	return &HTTPProvider{
		client:  &http.Client{Timeout: timeout},
		tcmbURL: tcmbURL,
		goldURL: goldURL,
		ttl:     ttl,
		now:     now,
	}
}

// GetAllRates returns the cached quote map, refreshing it when the TTL has
// lapsed. A refresh failure falls back to hardcoded values; the error return
// exists to satisfy callers that pass contexts but is nil in practice.
func (p *HTTPProvider) GetAllRates(ctx context.Context) (map[string]domain.Rate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		return p.cached, nil
	}

	rates := p.fetch(ctx)
	p.cached = rates
	p.fetchedAt = p.now()
	return rates, nil
}

func (p *HTTPProvider) fetch(ctx context.Context) map[string]domain.Rate {
	rates, err := p.fetchTCMB(ctx)
	logger.ExternalServiceResult("tcmb", "fetch_rates", err)
	if err != nil {
		return fallbackRates()
	}

	// Gram gold is derived from the USD selling rate and the live ounce
	// price; the ounce fetch has its own fallback so a gold outage never
	// drops the currency quotes.
	if usd, ok := rates["USD"]; ok {
		ounce := p.fetchGoldOunce(ctx)
		gram := usd.Selling.Mul(ounce).Div(troyOunceGrams)
		rates["ALTIN"] = domain.Rate{
			Code:    "ALTIN",
			Name:    "Gram Altın (24 Ayar)",
			Buying:  gram.Mul(goldBuyingSpread),
			Selling: gram,
		}
	}
	return rates
}

type tcmbDocument struct {
	Currencies []struct {
		Code    string `xml:"CurrencyCode,attr"`
		Name    string `xml:"Isim"`
		Buying  string `xml:"ForexBuying"`
		Selling string `xml:"ForexSelling"`
	} `xml:"Currency"`
}

func (p *HTTPProvider) fetchTCMB(ctx context.Context) (map[string]domain.Rate, error) {
	body, err := p.get(ctx, p.tcmbURL)
	if err != nil {
		return nil, err
	}

	var doc tcmbDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	rates := make(map[string]domain.Rate)
	for _, c := range doc.Currencies {
		if c.Code == "" || c.Buying == "" || c.Selling == "" {
			continue
		}
		buying, err := decimal.NewFromString(c.Buying)
		if err != nil {
			continue
		}
		selling, err := decimal.NewFromString(c.Selling)
		if err != nil {
			continue
		}
		rates[c.Code] = domain.Rate{Code: c.Code, Name: c.Name, Buying: buying, Selling: selling}
	}
	return rates, nil
}

type goldDocument struct {
	Items []struct {
		XAUPrice json.Number `json:"xauPrice"`
	} `json:"items"`
}

// fallbackOuncePrice is used when the live gold API is down.
var fallbackOuncePrice = decimal.RequireFromString("2650.00")

func (p *HTTPProvider) fetchGoldOunce(ctx context.Context) decimal.Decimal {
	body, err := p.get(ctx, p.goldURL)
	if err == nil {
		var doc goldDocument
		if jsonErr := json.Unmarshal(body, &doc); jsonErr == nil && len(doc.Items) > 0 {
			if price, decErr := decimal.NewFromString(doc.Items[0].XAUPrice.String()); decErr == nil {
				return price
			}
		}
	}
	logger.Warn("Live gold price unavailable, using fallback ounce price", "error", err)
	return fallbackOuncePrice
}

func (p *HTTPProvider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// fallbackRates are the emergency quotes used when the TCMB feed is down.
// Conservative values; never raised above recent market levels.
func fallbackRates() map[string]domain.Rate {
	return map[string]domain.Rate{
		"USD": {Code: "USD", Name: "ABD Doları", Buying: decimal.RequireFromString("34.80"), Selling: decimal.RequireFromString("34.95")},
		"EUR": {Code: "EUR", Name: "Euro", Buying: decimal.RequireFromString("37.10"), Selling: decimal.RequireFromString("37.30")},
		"ALTIN": {Code: "ALTIN", Name: "Altın", Buying: decimal.RequireFromString("2900"), Selling: decimal.RequireFromString("2970")},
	}
}
