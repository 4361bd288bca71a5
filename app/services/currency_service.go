package services

import (
	"sort"
	"sync"
	"time"

	httpclient "github.com/voltmart/voltmart/pkg/http"
	"github.com/voltmart/voltmart/pkg/logger"
)

// CurrencyService converts display prices between currencies. Rates are
// relative to USD and served from memory; Refresh can overwrite them from an
// external endpoint when one is configured. Construct it once and inject it
// where needed rather than reaching for package-level state.
type CurrencyService struct {
	mu      sync.RWMutex
	rates   map[string]float64
	ratesAt time.Time
	apiURL  string
}

// defaultRates seeds the table so the service works without any external
// dependency.
var defaultRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"CNY": 7.24,
	"INR": 83.10,
	"AUD": 1.52,
	"CAD": 1.36,
}

func NewCurrencyService(apiURL string) *CurrencyService {
	rates := make(map[string]float64, len(defaultRates))
	for code, rate := range defaultRates {
		rates[code] = rate
	}
	return &CurrencyService{
		rates:   rates,
		ratesAt: time.Now(),
		apiURL:  apiURL,
	}
}

// Rate holds one currency's multiplier relative to USD.
type Rate struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// List returns the supported currencies sorted by code.
func (s *CurrencyService) List() []Rate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Rate, 0, len(s.rates))
	for code, rate := range s.rates {
		out = append(out, Rate{Code: code, Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Convert translates amount from one currency to another via USD.
func (s *CurrencyService) Convert(amount float64, from, to string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromRate, ok := s.rates[from]
	if !ok {
		return 0, ErrCurrencyNotFound
	}
	toRate, ok := s.rates[to]
	if !ok {
		return 0, ErrCurrencyNotFound
	}
	return amount / fromRate * toRate, nil
}

// UpdatedAt reports when the table was last written.
func (s *CurrencyService) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratesAt
}

// ratesResponse matches the exchange-rates endpoint shape:
// {"base":"USD","rates":{"EUR":0.92,...}}.
type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Refresh fetches live rates when an API URL is configured. Failures keep
// the current table; stale rates beat no rates.
func (s *CurrencyService) Refresh() error {
	if s.apiURL == "" {
		return nil
	}

	resp, err := httpclient.Get(s.apiURL).
		Timeout(10 * time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		logger.Warn("currency: refresh failed", "error", err)
		return err
	}
	if err := resp.Throw(); err != nil {
		logger.Warn("currency: refresh failed", "status", resp.StatusCode)
		return err
	}

	var body ratesResponse
	if err := resp.JSON(&body); err != nil {
		return err
	}
	if len(body.Rates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = map[string]float64{"USD": 1.0}
	for code, rate := range body.Rates {
		if rate > 0 {
			s.rates[code] = rate
		}
	}
	s.ratesAt = time.Now()
	logger.Info("currency: rates refreshed", "currencies", len(s.rates))
	return nil
}
