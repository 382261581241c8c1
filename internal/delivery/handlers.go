package delivery

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/sintesi/internal/credits"
	"github.com/Vovarama1992/sintesi/internal/pipeline"
	"github.com/google/uuid"
)

const (
	sessionCookie = "session_id"
	emailCookie   = "user_email"
	sessionTTL    = 30 * 24 * time.Hour
)

type SummaryHandler struct {
	pipeline   *pipeline.Service
	ledger     credits.Ledger
	adminToken string
	log        *logger.ZapLogger
}

func NewSummaryHandler(p *pipeline.Service, ledger credits.Ledger, adminToken string, log *logger.ZapLogger) *SummaryHandler {
	return &SummaryHandler{
		pipeline:   p,
		ledger:     ledger,
		adminToken: adminToken,
		log:        log,
	}
}

// caller собирает идентичность вызывающего: кука сессии (создаётся при
// первом заходе), fingerprint браузера и email, если он залогинен
func (h *SummaryHandler) caller(w http.ResponseWriter, r *http.Request) credits.Caller {
	sessionID := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		sessionID = c.Value
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(sessionTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	email := ""
	if c, err := r.Cookie(emailCookie); err == nil {
		email = c.Value
	}

	fp := credits.Fingerprint(
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		clientIP(r),
	)

	privileged := h.adminToken != "" && r.Header.Get("X-Admin-Token") == h.adminToken

	return credits.Caller{
		Email:       email,
		SessionID:   sessionID,
		Fingerprint: fp,
		Privileged:  privileged,
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string `json:"url"`
		Language string `json:"language"`
		Length   string `json:"length"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Process(r.Context(), pipeline.Request{
		URL:      req.URL,
		Language: req.Language,
		Length:   req.Length,
		Caller:   h.caller(w, r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"summary":  result.Summary,
		"audioUrl": result.AudioRef,
		"credits":  result.Entitlement,
	})
}

// наружу уходят только дружелюбные сообщения, сырые ошибки провайдеров — в лог
func (h *SummaryHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrCreditExhausted):
		status = http.StatusPaymentRequired
	case errors.Is(err, pipeline.ErrLedgerWrite):
		status = http.StatusInternalServerError
	default:
		status = http.StatusBadGateway
	}

	h.log.Log(logger.LogEntry{Level: "error", Message: "summary request failed", Error: err})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":        pipeline.Classify(err),
		"needsPayment": errors.Is(err, pipeline.ErrCreditExhausted),
	})
}

func (h *SummaryHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	ent, err := h.ledger.Check(r.Context(), h.caller(w, r))
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "entitlement check failed", Error: err})
		http.Error(w, "failed to check credits", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ent)
}

func (h *SummaryHandler) ListPackages(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.ledger.Packages())
}

// AddCredits — ручное начисление пакета, только с админским токеном
func (h *SummaryHandler) AddCredits(w http.ResponseWriter, r *http.Request) {
	if h.adminToken == "" || r.Header.Get("X-Admin-Token") != h.adminToken {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Email     string `json:"email"`
		PackageID string `json:"packageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "missing email", http.StatusBadRequest)
		return
	}

	ok, err := h.ledger.Grant(r.Context(), req.Email, req.PackageID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "grant failed", Error: err})
		http.Error(w, "failed to add credits", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "unknown package", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
