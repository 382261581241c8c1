package credits

import "context"

type Package struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Credits    int    `json:"credits"`
	PriceCents int    `json:"price_cents"`
}

// цены в центах, оформление оплаты — снаружи
var creditPackages = []Package{
	{ID: "1", Name: "Starter", Credits: 10, PriceCents: 500},
	{ID: "2", Name: "Pro", Credits: 25, PriceCents: 1000},
	{ID: "3", Name: "Premium", Credits: 50, PriceCents: 1800},
}

func (s *service) Packages() []Package {
	return creditPackages
}

// Grant — начисляет пакет кредитов на аккаунт (создаёт его при необходимости)
func (s *service) Grant(ctx context.Context, email, packageID string) (bool, error) {
	for _, p := range creditPackages {
		if p.ID == packageID {
			if err := s.store.AddCredits(ctx, email, p.Credits); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}
