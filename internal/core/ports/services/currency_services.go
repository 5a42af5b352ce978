package services

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/dto"
)

// CurrencySvcFacade defines operations for the currency registry.
type CurrencySvcFacade interface {
	// CreateCurrency registers a new reporting currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by its ISO code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
