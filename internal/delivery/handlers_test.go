package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/sintesi/internal/ai"
	"github.com/Vovarama1992/sintesi/internal/credits"
	"github.com/Vovarama1992/sintesi/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLedger struct {
	ent      credits.Entitlement
	checkErr error
	grantOK  bool
	grantErr error
}

func (s *stubLedger) Check(_ context.Context, _ credits.Caller) (credits.Entitlement, error) {
	return s.ent, s.checkErr
}
func (s *stubLedger) Consume(_ context.Context, _ credits.Caller) (bool, error) { return true, nil }
func (s *stubLedger) Refund(_ context.Context, _ credits.Caller) (bool, error)  { return true, nil }
func (s *stubLedger) Grant(_ context.Context, _, _ string) (bool, error) {
	return s.grantOK, s.grantErr
}
func (s *stubLedger) Packages() []credits.Package {
	return []credits.Package{{ID: "1", Name: "Starter", Credits: 10, PriceCents: 500}}
}

func newTestHandler(ledger credits.Ledger, adminToken string) *SummaryHandler {
	zl := logger.NewZapLogger(zap.NewNop().Sugar())
	return NewSummaryHandler(nil, ledger, adminToken, zl)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:43210"
	assert.Equal(t, "10.0.0.5", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

func TestCallerSetsSessionCookie(t *testing.T) {
	h := newTestHandler(&stubLedger{}, "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/summary", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "10.0.0.5:43210"

	c := h.caller(w, r)
	require.NotEmpty(t, c.SessionID)
	require.NotEmpty(t, c.Fingerprint)
	assert.False(t, c.Privileged)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, c.SessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCallerReusesCookieAndReadsEmail(t *testing.T) {
	h := newTestHandler(&stubLedger{}, "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/summary", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-token"})
	r.AddCookie(&http.Cookie{Name: emailCookie, Value: "user@example.com"})
	r.Header.Set("X-Admin-Token", "secret")

	c := h.caller(w, r)
	assert.Equal(t, "existing-token", c.SessionID)
	assert.Equal(t, "user@example.com", c.Email)
	assert.True(t, c.Privileged)

	// кука уже есть, повторно не ставим
	assert.Empty(t, w.Result().Cookies())
}

func TestWriteErrorMapping(t *testing.T) {
	h := newTestHandler(&stubLedger{}, "")

	testCases := []struct {
		name         string
		err          error
		wantStatus   int
		needsPayment bool
	}{
		{name: "invalid input", err: pipeline.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "exhausted", err: pipeline.ErrCreditExhausted, wantStatus: http.StatusPaymentRequired, needsPayment: true},
		{name: "ledger write", err: pipeline.ErrLedgerWrite, wantStatus: http.StatusInternalServerError},
		{name: "provider", err: &ai.ProviderError{Err: errors.New("status code: 500")}, wantStatus: http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.writeError(w, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)

			var body struct {
				Error        string `json:"error"`
				NeedsPayment bool   `json:"needsPayment"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "status code")
			assert.Equal(t, tc.needsPayment, body.NeedsPayment)
		})
	}
}

func TestGetCredits(t *testing.T) {
	ledger := &stubLedger{ent: credits.Entitlement{HasCredits: true, CreditsRemaining: 2, CreditsUsed: 1}}
	h := newTestHandler(ledger, "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/credits", nil)

	h.GetCredits(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var ent credits.Entitlement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ent))
	assert.True(t, ent.HasCredits)
	assert.Equal(t, 2, ent.CreditsRemaining)
}

func TestAddCreditsRequiresAdminToken(t *testing.T) {
	h := newTestHandler(&stubLedger{grantOK: true}, "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/credits/add", bytes.NewBufferString(`{"email":"a@b.c","packageId":"1"}`))

	h.AddCredits(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddCreditsUnknownPackage(t *testing.T) {
	h := newTestHandler(&stubLedger{grantOK: false}, "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/credits/add", bytes.NewBufferString(`{"email":"a@b.c","packageId":"99"}`))
	r.Header.Set("X-Admin-Token", "secret")

	h.AddCredits(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCreditsOK(t *testing.T) {
	h := newTestHandler(&stubLedger{grantOK: true}, "secret")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/credits/add", bytes.NewBufferString(`{"email":"a@b.c","packageId":"1"}`))
	r.Header.Set("X-Admin-Token", "secret")

	h.AddCredits(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
