package request

// ExchangeRateRequest carries the rate as typed, e.g. "17.50"
type ExchangeRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

// SelectPrinterRequest selects the receipt printer. A null printer clears the choice.
type SelectPrinterRequest struct {
	Printer *PrinterRef `json:"printer"`
}

// PrinterRef identifies a USB printer by vendor and product id
type PrinterRef struct {
	VendorID     uint16 `json:"vid" binding:"required"`
	ProductID    uint16 `json:"pid" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
}
