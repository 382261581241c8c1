package credits

import (
	"context"
	"log"
)

type service struct {
	store Store
	quota int
}

// NewService — quota действует только на анонимные сессии,
// у зарегистрированных баланс свой
func NewService(store Store, quota int) Ledger {
	return &service{store: store, quota: quota}
}

// Check — снимок прав без мутации состояния
func (s *service) Check(ctx context.Context, c Caller) (Entitlement, error) {
	if c.Email != "" {
		acc, err := s.store.GetAccount(ctx, c.Email)
		if err != nil {
			return Entitlement{}, err
		}
		if acc != nil {
			return Entitlement{
				HasCredits:       acc.Credits > 0,
				CreditsRemaining: acc.Credits,
				IsRegistered:     true,
				NeedsPayment:     acc.Credits == 0,
			}, nil
		}
		// почта есть, аккаунта нет — считаем анонимом
	}

	sess, err := s.store.GetOrCreateSession(ctx, c.SessionID, c.Fingerprint)
	if err != nil {
		return Entitlement{}, err
	}

	remaining := s.quota - sess.CreditsUsed
	if remaining < 0 {
		remaining = 0
	}

	return Entitlement{
		HasCredits:       remaining > 0,
		CreditsUsed:      sess.CreditsUsed,
		CreditsRemaining: remaining,
		NeedsPayment:     remaining == 0,
	}, nil
}

func (s *service) Consume(ctx context.Context, c Caller) (bool, error) {
	if c.Email != "" {
		acc, err := s.store.GetAccount(ctx, c.Email)
		if err != nil {
			return false, err
		}
		if acc == nil {
			return false, nil
		}
		return s.store.ConsumeAccount(ctx, acc.ID)
	}

	if c.SessionID == "" {
		log.Printf("[credits] consume without session id")
		return false, nil
	}

	sess, err := s.store.GetOrCreateSession(ctx, c.SessionID, c.Fingerprint)
	if err != nil {
		return false, err
	}
	return s.store.ConsumeSession(ctx, sess.ID, s.quota)
}

// Refund — обратная операция к Consume, с теми же границами
func (s *service) Refund(ctx context.Context, c Caller) (bool, error) {
	if c.Email != "" {
		acc, err := s.store.GetAccount(ctx, c.Email)
		if err != nil {
			return false, err
		}
		if acc == nil {
			return false, nil
		}
		return s.store.RefundAccount(ctx, acc.ID)
	}

	if c.SessionID == "" {
		return false, nil
	}

	sess, err := s.store.GetOrCreateSession(ctx, c.SessionID, c.Fingerprint)
	if err != nil {
		return false, err
	}
	return s.store.RefundSession(ctx, sess.ID)
}
