package credits

import (
	"context"
	"time"
)

type Session struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Fingerprint string    `json:"browser_fingerprint"`
	CreditsUsed int       `json:"credits_used"`
	LastUsedAt  time.Time `json:"last_used_at"`
}

type Account struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}

// Entitlement — вычисляемый снимок прав, нигде не хранится
type Entitlement struct {
	HasCredits       bool `json:"hasCredits"`
	CreditsUsed      int  `json:"creditsUsed"`
	CreditsRemaining int  `json:"creditsRemaining"`
	IsRegistered     bool `json:"isRegistered"`
	NeedsPayment     bool `json:"needsPayment"`
}

// Caller — идентичность вызывающего: email (зарегистрированный)
// или сессия+fingerprint (аноним)
type Caller struct {
	Email       string
	SessionID   string
	Fingerprint string
	Privileged  bool
}

// Store — работа с БД
type Store interface {
	GetOrCreateSession(ctx context.Context, sessionID, fingerprint string) (*Session, error)
	GetAccount(ctx context.Context, email string) (*Account, error)
	ConsumeSession(ctx context.Context, id string, quota int) (bool, error)
	RefundSession(ctx context.Context, id string) (bool, error)
	ConsumeAccount(ctx context.Context, userID string) (bool, error)
	RefundAccount(ctx context.Context, userID string) (bool, error)
	AddCredits(ctx context.Context, email string, n int) error
}

// Ledger — бизнес-операции
type Ledger interface {
	Check(ctx context.Context, c Caller) (Entitlement, error)
	Consume(ctx context.Context, c Caller) (bool, error)
	Refund(ctx context.Context, c Caller) (bool, error)
	Grant(ctx context.Context, email, packageID string) (bool, error)
	Packages() []Package
}
