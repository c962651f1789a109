package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/shopspring/decimal"
)

// SettingsService reads and writes the register settings stored as key/value rows
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaultRate  decimal.Decimal
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, defaultRate decimal.Decimal) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaultRate:  defaultRate,
	}
}

// ExchangeRateView is the rate as shown to the cashier
type ExchangeRateView struct {
	Rate string `json:"rate"`
}

// GetExchangeRate returns the stored USD to MXN rate. A missing or corrupt
// value, or a storage failure, falls back to the default rate.
func (s *SettingsService) GetExchangeRate(ctx context.Context) decimal.Decimal {
	setting, err := s.settingsRepo.Get(ctx, entity.SettingExchangeRate)
	if err != nil {
		log.Printf("Warning: failed to read exchange rate, using default: %v", err)
		return s.defaultRate
	}
	if setting == nil {
		return s.defaultRate
	}

	rate, err := decimal.NewFromString(setting.Value)
	if err != nil || !rate.IsPositive() {
		log.Printf("Warning: stored exchange rate %q is invalid, using default", setting.Value)
		return s.defaultRate
	}
	return rate
}

// SetExchangeRate validates and stores a rate typed by the user. A rejected
// value leaves the stored rate untouched and the error carries the current rate.
func (s *SettingsService) SetExchangeRate(ctx context.Context, input string) (*ExchangeRateView, error) {
	rate, err := money.ParseExchangeRate(input)
	if err != nil {
		current := s.GetExchangeRate(ctx)
		return nil, apperror.NewFieldError("rate", err.Error()).
			WithDetails(&ExchangeRateView{Rate: money.FormatCurrency(current)})
	}

	value := money.FormatCurrency(rate)
	if err := s.settingsRepo.Upsert(ctx, entity.SettingExchangeRate, value); err != nil {
		log.Printf("Failed to save exchange rate: %v", err)
		return nil, apperror.NewPersistenceError("Failed to save exchange rate", err)
	}
	return &ExchangeRateView{Rate: value}, nil
}

// GetSelectedPrinter returns the printer chosen by the user, nil if none.
func (s *SettingsService) GetSelectedPrinter(ctx context.Context) (*entity.PrinterRef, error) {
	setting, err := s.settingsRepo.Get(ctx, entity.SettingThermalPrinter)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to read printer settings", err)
	}
	if setting == nil || setting.Value == "" {
		return nil, nil
	}

	var ref entity.PrinterRef
	if err := json.Unmarshal([]byte(setting.Value), &ref); err != nil {
		log.Printf("Warning: stored printer setting is corrupt, ignoring: %v", err)
		return nil, nil
	}
	return &ref, nil
}

// SetSelectedPrinter stores the printer choice. Nil clears it.
func (s *SettingsService) SetSelectedPrinter(ctx context.Context, ref *entity.PrinterRef) error {
	if ref == nil {
		if err := s.settingsRepo.Delete(ctx, entity.SettingThermalPrinter); err != nil {
			return apperror.NewPersistenceError("Failed to clear printer settings", err)
		}
		return nil
	}

	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	if err := s.settingsRepo.Upsert(ctx, entity.SettingThermalPrinter, string(data)); err != nil {
		log.Printf("Failed to save printer settings: %v", err)
		return apperror.NewPersistenceError("Failed to save printer settings", err)
	}
	return nil
}
