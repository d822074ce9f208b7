package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"KlineWatch/internal/model"
)

// DefaultBingXBaseURL is the public BingX swap API endpoint.
const DefaultBingXBaseURL = "https://open-api.bingx.com"

// BingXFetcher implements Fetcher using the public BingX kline endpoint.
// The endpoint needs no API key signature.
type BingXFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBingXFetcher creates a fetcher with optional proxy support.
func NewBingXFetcher(baseURL, proxyURL string) *BingXFetcher {
	if baseURL == "" {
		baseURL = DefaultBingXBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BingXFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BingXFetcher) Name() string { return "bingx" }

// bingxKline is one bar in the BingX response. Prices arrive as strings or
// numbers depending on the endpoint version, so fields are decoded leniently.
type bingxKline struct {
	Open   json.Number `json:"open"`
	Close  json.Number `json:"close"`
	High   json.Number `json:"high"`
	Low    json.Number `json:"low"`
	Volume json.Number `json:"volume"`
	Time   int64       `json:"time"`
}

// bingxEnvelope is the standard BingX response wrapper; code 0 means success.
type bingxEnvelope struct {
	Code int          `json:"code"`
	Msg  string       `json:"msg"`
	Data []bingxKline `json:"data"`
}

// FetchKlines retrieves up to `limit` bars for the symbol/interval pair,
// sorted oldest first.
func (f *BingXFetcher) FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/openApi/swap/v2/quote/klines?%s", f.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch klines: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope bingxEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	if envelope.Code != 0 {
		return nil, fmt.Errorf("bingx api error (code %d): %s", envelope.Code, envelope.Msg)
	}

	bars := make([]model.Kline, 0, len(envelope.Data))
	for _, k := range envelope.Data {
		bars = append(bars, model.Kline{
			Time:   time.UnixMilli(k.Time),
			Open:   toFloat(k.Open),
			High:   toFloat(k.High),
			Low:    toFloat(k.Low),
			Close:  toFloat(k.Close),
			Volume: toFloat(k.Volume),
		})
	}
	// BingX returns newest first; callers expect chronological order.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func toFloat(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}
