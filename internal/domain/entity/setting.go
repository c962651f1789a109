package entity

import "time"

// Setting keys
const (
	SettingExchangeRate   = "exchange_rate_usd_to_mxn"
	SettingThermalPrinter = "thermal_printer"
)

// Setting is one key/value row of register configuration edited at runtime.
type Setting struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// PrinterRef identifies the USB receipt printer chosen by the user.
type PrinterRef struct {
	VendorID     uint16 `json:"vid"`
	ProductID    uint16 `json:"pid"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Product      string `json:"product,omitempty"`
}
