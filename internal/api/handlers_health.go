// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// datasetStatus is the readiness view of one loaded dataset.
type datasetStatus struct {
	Entities   int  `json:"entities"`
	MatrixCols int  `json:"matrix_cols"`
	Popular    bool `json:"popular"`
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only when every configured domain has a loaded dataset.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	store := h.holder.Current()
	datasets := make(map[string]datasetStatus)
	ready := store != nil

	for _, name := range h.query.Domains() {
		ds, ok := store.Dataset(name)
		if !ok {
			ready = false
			continue
		}
		datasets[name] = datasetStatus{
			Entities:   ds.Len(),
			MatrixCols: ds.Matrix().Cols(),
			Popular:    ds.HasPopular(),
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	body := map[string]any{
		"status":   status,
		"datasets": datasets,
		"uptime":   time.Since(h.startTime).Seconds(),
	}
	if store != nil {
		body["loaded_at"] = store.LoadedAt().UTC().Format(time.RFC3339)
	}
	respondJSON(w, statusCode, body)
}
