// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/kinoscope/internal/models"
)

func TestBreakerOpensOnRepeatedFailures(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	breaker := NewBreakerClient(client)

	for i := 0; i < breakerMinRequests; i++ {
		if _, err := breaker.Search(context.Background(), "x"); err == nil {
			t.Fatalf("call %d succeeded, want failure", i)
		}
	}

	_, err := breaker.Search(context.Background(), "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error after trip = %v, want ErrOpenState", err)
	}
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	breaker := NewBreakerClient(client)

	// Misses are valid answers: far more than the trip threshold must not
	// open the breaker.
	for i := 0; i < breakerMinRequests*2; i++ {
		_, err := breaker.GetDetails(context.Background(), 1, models.KindMovie)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d error = %v, want ErrNotFound", i, err)
		}
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"id": 7, "title": "Dune", "media_type": "movie"}]}`))
	}))
	breaker := NewBreakerClient(client)

	items, err := breaker.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].ID != 7 {
		t.Errorf("items = %+v", items)
	}
}

func TestCastResult(t *testing.T) {
	t.Parallel()

	items, err := castResult[[]models.CatalogItem]([]models.CatalogItem{{ID: 1}})
	if err != nil || len(items) != 1 {
		t.Errorf("castResult = (%v, %v)", items, err)
	}

	if _, err := castResult[[]models.CatalogItem]("wrong type"); err == nil {
		t.Error("castResult accepted mismatched type")
	}

	nilItem, err := castResult[*models.CatalogItem](nil)
	if err != nil || nilItem != nil {
		t.Errorf("castResult(nil) = (%v, %v), want (nil, nil)", nilItem, err)
	}
}
