// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/budtender/internal/logging"
)

func serveRequestID(t *testing.T, header string) (responseID, contextID string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		contextID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec.Header().Get(RequestIDHeader), contextID
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	responseID, contextID := serveRequestID(t, "")
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", responseID, err)
	}
	if contextID != responseID {
		t.Errorf("context ID = %q, header ID = %q", contextID, responseID)
	}
}

func TestRequestID_Upstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"proxy id kept", "edge-7f3a91", true},
		{"uuid kept", "5b6c0c1e-8a1f-4c52-9d0b-3f1b2a3c4d5e", true},
		{"space rejected", "two words", false},
		{"control char rejected", "abc\x01", false},
		{"too long rejected", strings.Repeat("a", maxRequestIDLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			responseID, contextID := serveRequestID(t, tt.header)
			if (responseID == tt.header) != tt.keep {
				t.Errorf("response ID = %q, keep = %v", responseID, tt.keep)
			}
			if contextID != responseID {
				t.Errorf("context ID = %q, header ID = %q", contextID, responseID)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, _ := serveRequestID(t, "")
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestRequestID_ScopesLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logger := logging.Ctx(r.Context()).Output(&buf)
		logger.Warn().Msg("price source slow")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/p1", nil)
	req.Header.Set(RequestIDHeader, "edge-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	for _, want := range []string{
		`"method":"GET"`,
		`"path":"/api/v1/prices/p1"`,
		`"request_id":"edge-42"`,
		"price source slow",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in log line: %s", want, output)
		}
	}
}
