// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/kinoscope/internal/logging"
	"github.com/tomtom215/kinoscope/internal/metrics"
	"github.com/tomtom215/kinoscope/internal/models"
)

// Circuit breaker tuning. The breaker opens when at least minRequests calls
// were observed in the interval and the failure ratio reaches failureRatio.
const (
	breakerName         = "tmdb"
	breakerMinRequests  = 10
	breakerFailureRatio = 0.6
	breakerInterval     = time.Minute
	breakerTimeout      = 2 * time.Minute
	breakerMaxRequests  = 3
)

// BreakerClient wraps a Client with a circuit breaker so that a failing
// upstream sheds load fast instead of stacking timeouts.
type BreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerClient wraps the given client with a circuit breaker.
func NewBreakerClient(client *Client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			// Misses and config gaps are valid answers, not upstream
			// failures. Caller cancellation is not upstream failure either.
			switch {
			case err == nil:
				return true
			case errors.Is(err, ErrNotFound):
				return true
			case errors.Is(err, ErrNotConfigured):
				return true
			case errors.Is(err, context.Canceled):
				return true
			}
			return false
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(stateValue(gobreaker.StateClosed))

	return &BreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Configured reports whether the wrapped client has an API key.
func (b *BreakerClient) Configured() bool {
	return b.client.Configured()
}

// Search passes through the breaker to the wrapped client.
func (b *BreakerClient) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.Search(ctx, query)
	})
}

// GetDetails passes through the breaker to the wrapped client.
func (b *BreakerClient) GetDetails(ctx context.Context, id int64, kind models.MediaKind) (*models.CatalogItem, error) {
	return execute[*models.CatalogItem](b, func() (any, error) {
		return b.client.GetDetails(ctx, id, kind)
	})
}

// GetRelated passes through the breaker to the wrapped client.
func (b *BreakerClient) GetRelated(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.GetRelated(ctx, id, kind)
	})
}

// GetSimilar passes through the breaker to the wrapped client.
func (b *BreakerClient) GetSimilar(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.GetSimilar(ctx, id, kind)
	})
}

// Trending passes through the breaker to the wrapped client.
func (b *BreakerClient) Trending(ctx context.Context) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.Trending(ctx)
	})
}

// NowPlaying passes through the breaker to the wrapped client.
func (b *BreakerClient) NowPlaying(ctx context.Context) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.NowPlaying(ctx)
	})
}

// PopularTV passes through the breaker to the wrapped client.
func (b *BreakerClient) PopularTV(ctx context.Context) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.PopularTV(ctx)
	})
}

// TopRated passes through the breaker to the wrapped client.
func (b *BreakerClient) TopRated(ctx context.Context) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.TopRated(ctx)
	})
}

// Upcoming passes through the breaker to the wrapped client.
func (b *BreakerClient) Upcoming(ctx context.Context) ([]models.CatalogItem, error) {
	return execute[[]models.CatalogItem](b, func() (any, error) {
		return b.client.Upcoming(ctx)
	})
}

// execute runs fn through the breaker and casts the result. The breaker
// holds `any` because its methods return different types.
func execute[T any](b *BreakerClient, fn func() (any, error)) (T, error) {
	result, err := b.breaker.Execute(fn)
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return zero, fmt.Errorf("tmdb: circuit breaker open: %w", err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return castResult[T](result)
}

// castResult asserts the breaker's `any` result back to the concrete type.
func castResult[T any](result any) (T, error) {
	if result == nil {
		var zero T
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("tmdb: unexpected result type %T", result)
	}
	return typed, nil
}

// stateValue maps a breaker state to its gauge value.
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
