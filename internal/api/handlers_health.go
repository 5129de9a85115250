// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package api

import (
	"net/http"
)

// HealthStatus is the readiness probe payload.
type HealthStatus struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// StoreLoaded reports whether the local similarity store loaded.
	StoreLoaded bool `json:"store_loaded"`

	// CatalogEntries is the local catalog size.
	CatalogEntries int `json:"catalog_entries"`

	// ExternalConfigured reports whether the external catalog client has
	// credentials.
	ExternalConfigured bool `json:"external_configured"`
}

// Live handles GET /health/live. Always 200 while the process serves.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready. The service is ready even in degraded
// mode (external-only), so this reports status rather than failing: a
// degraded engine still answers queries.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:             "ok",
		StoreLoaded:        h.store.Ready(),
		CatalogEntries:     h.store.Len(),
		ExternalConfigured: h.discoveryConfigured(),
	}
	if !status.StoreLoaded {
		status.Status = "degraded"
	}
	NewResponseWriter(w, r).Success(status)
}

// discoveryConfigured reports the external client's credential state when
// the client exposes it.
func (h *Handler) discoveryConfigured() bool {
	type configured interface{ Configured() bool }
	if c, ok := h.discovery.(configured); ok {
		return c.Configured()
	}
	return h.discovery != nil
}
