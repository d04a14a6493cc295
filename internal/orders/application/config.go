package application

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	orders "ticketshop/internal/orders/domain"
)

// Config holds the shop parameters: ticket prices, the payment reminder
// schedule and the bank details printed on invoices. Values are read-only
// after load and passed explicitly into the services that need them.
type Config struct {
	TicketPriceDiscount float64 `yaml:"ticket_price_discount"`
	TicketPriceRegular  float64 `yaml:"ticket_price_regular"`

	PaymentGraceDays int `yaml:"payment_grace_days"`
	WarningGraceDays int `yaml:"warning_grace_days"`
	BankTransferDays int `yaml:"bank_transfer_days"`

	DeleteDaysBeforeConcert     int `yaml:"delete_days_before_concert"`
	SaleCloseHoursBeforeConcert int `yaml:"sale_close_hours_before_concert"`

	OrchestraName     string `yaml:"orchestra_name"`
	OrchestraFullName string `yaml:"orchestra_full_name"`
	IBAN              string `yaml:"iban"`
	BIC               string `yaml:"bic"`
	BaseURL           string `yaml:"base_url"`
}

// LoadConfig loads defaults, overlays an optional yaml file named by
// SHOP_CONFIG and finally applies price overrides from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		TicketPriceDiscount:         8,
		TicketPriceRegular:          20,
		PaymentGraceDays:            14,
		WarningGraceDays:            7,
		BankTransferDays:            2,
		DeleteDaysBeforeConcert:     5,
		SaleCloseHoursBeforeConcert: 3,
		OrchestraName:               "Fantasie Philharmonie",
		OrchestraFullName:           "Fantasie Philharmonie e.V.",
		IBAN:                        "DE00 0000 0000 0000 0000",
		BIC:                         "YOURBIC",
		BaseURL:                     "https://tickets.your-orchestra.de",
	}

	if path := os.Getenv("SHOP_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.TicketPriceDiscount = getenvFloatDefault("TICKET_PRICE_DISCOUNT", cfg.TicketPriceDiscount)
	cfg.TicketPriceRegular = getenvFloatDefault("TICKET_PRICE_REGULAR", cfg.TicketPriceRegular)

	if cfg.TicketPriceDiscount <= 0 || cfg.TicketPriceRegular <= 0 {
		return cfg, errors.New("config: ticket prices must be positive")
	}
	if cfg.PaymentGraceDays <= 0 || cfg.WarningGraceDays <= 0 {
		return cfg, errors.New("config: grace periods must be positive")
	}
	return cfg, nil
}

// Prices returns the ticket price list as decimals.
func (c Config) Prices() orders.PriceList {
	return orders.PriceList{
		Discount: decimal.NewFromFloat(c.TicketPriceDiscount),
		Regular:  decimal.NewFromFloat(c.TicketPriceRegular),
	}
}

// ReminderCutoff returns the latest order date that is overdue for a first
// reminder, allowing for bank transfer time on top of the grace period.
func (c Config) ReminderCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -(c.PaymentGraceDays + c.BankTransferDays))
}

// WarningCutoff returns the latest reminder date that is overdue for a
// payment warning.
func (c Config) WarningCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -(c.WarningGraceDays + c.BankTransferDays))
}

// SaleClose returns how long before concert start the online sale closes.
func (c Config) SaleClose() time.Duration {
	return time.Duration(c.SaleCloseHoursBeforeConcert) * time.Hour
}

// DeleteWindow returns how long before concert start cancellation closes.
func (c Config) DeleteWindow() time.Duration {
	return time.Duration(c.DeleteDaysBeforeConcert) * 24 * time.Hour
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
