package collector

import (
	"context"

	"KlineWatch/internal/model"
)

// Fetcher defines the interface for fetching kline history.
// Bars are returned oldest first.
type Fetcher interface {
	FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error)
	Name() string
}
