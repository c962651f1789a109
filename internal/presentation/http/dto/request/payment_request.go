package request

// AddTenderRequest records a tender. Without an amount the keypad buffer is used.
type AddTenderRequest struct {
	Method string  `json:"method" binding:"required"`
	Amount *string `json:"amount"`
}

// SelectMethodRequest chooses the tender the keypad feeds
type SelectMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// KeypadRequest is one key press: a digit, "00", ".", "backspace" or "clear"
type KeypadRequest struct {
	Key string `json:"key" binding:"required"`
}

// PresetRequest is a preset amount or "exact"
type PresetRequest struct {
	Amount string `json:"amount" binding:"required"`
}
