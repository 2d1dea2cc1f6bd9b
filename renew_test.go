package goAuthClient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRenewerExchangesRefreshCredential(t *testing.T) {
	var gotBody renewalRequest
	var gotContentType, gotUserAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding renewal request failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh"}`)); err != nil {
			t.Errorf("writing response failed: %v", err)
		}
	}))
	defer srv.Close()

	rn := newRenewer(srv.Client(), srv.URL, "goAuthClient-test/1.0")
	pair, err := rn.renew(context.Background(), "old-refresh")
	if err != nil {
		t.Fatalf("renew failed: %v", err)
	}

	if pair.AccessToken != "new-access" || pair.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if gotBody.RefreshToken != "old-refresh" {
		t.Fatalf("expected the refresh credential in the request body, got %q", gotBody.RefreshToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected Content-Type %q", gotContentType)
	}
	if gotUserAgent != "goAuthClient-test/1.0" {
		t.Fatalf("unexpected User-Agent %q", gotUserAgent)
	}
}

func TestRenewerFailureModes(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "rejected", status: http.StatusUnauthorized, body: `{"error":"invalid_grant"}`, wantMsg: "status 401"},
		{name: "server error", status: http.StatusInternalServerError, body: "", wantMsg: "status 500"},
		{name: "malformed body", status: http.StatusOK, body: "{not json", wantMsg: "malformed"},
		{name: "missing access credential", status: http.StatusOK, body: `{"refresh_token":"r"}`, wantMsg: "missing credentials"},
		{name: "missing refresh credential", status: http.StatusOK, body: `{"access_token":"a"}`, wantMsg: "missing credentials"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				if _, err := w.Write([]byte(tc.body)); err != nil {
					t.Errorf("writing response failed: %v", err)
				}
			}))
			defer srv.Close()

			rn := newRenewer(srv.Client(), srv.URL, "")
			_, err := rn.renew(context.Background(), "old-refresh")
			if !errors.Is(err, ErrRenewalFailed) {
				t.Fatalf("expected ErrRenewalFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected %q in error, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestRenewerUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	rn := newRenewer(nil, srv.URL, "")
	_, err := rn.renew(context.Background(), "old-refresh")
	if !errors.Is(err, ErrRenewalFailed) {
		t.Fatalf("expected ErrRenewalFailed on network error, got %v", err)
	}
}

func TestRenewerHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rn := newRenewer(srv.Client(), srv.URL, "")
	_, err := rn.renew(ctx, "old-refresh")
	if !errors.Is(err, ErrRenewalFailed) {
		t.Fatalf("expected ErrRenewalFailed for cancelled context, got %v", err)
	}
}
