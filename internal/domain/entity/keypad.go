package entity

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidKey = errors.New("invalid keypad key")

// Keypad keys that are not digits.
const (
	KeyDoubleZero = "00"
	KeyDecimal    = "."
	KeyBackspace  = "backspace"
	KeyClear      = "clear"
)

// PresetAmounts are the fixed amount buttons next to the keypad.
var PresetAmounts = []string{"10.00", "20.00", "50.00", "100.00", "200.00", "500.00"}

// AmountKeypad is the string buffer behind the numeric keypad. After a
// tender or a preset the next key starts a new entry instead of appending.
type AmountKeypad struct {
	buffer string
	fresh  bool
}

// NewAmountKeypad starts with the given amount shown as a fresh entry.
func NewAmountKeypad(initial string) *AmountKeypad {
	if initial == "" {
		initial = "0"
	}
	return &AmountKeypad{buffer: initial, fresh: true}
}

func (k *AmountKeypad) Value() string { return k.buffer }
func (k *AmountKeypad) Fresh() bool   { return k.fresh }

// Amount parses the buffer. A trailing decimal point reads as zero cents.
func (k *AmountKeypad) Amount() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSuffix(k.buffer, "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Press applies one key.
func (k *AmountKeypad) Press(key string) error {
	switch key {
	case KeyDecimal:
		k.pressDecimal()
	case KeyBackspace:
		k.backspace()
	case KeyClear:
		k.Clear()
	default:
		if !isDigitKey(key) {
			return ErrInvalidKey
		}
		k.pressDigit(key)
	}
	return nil
}

func isDigitKey(key string) bool {
	if key == KeyDoubleZero {
		return true
	}
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

func (k *AmountKeypad) pressDigit(key string) {
	if k.fresh {
		k.fresh = false
		if key == KeyDoubleZero {
			k.buffer = "0"
		} else {
			k.buffer = key
		}
		return
	}

	integer, fraction, hasPoint := strings.Cut(k.buffer, ".")
	if !hasPoint {
		zero := key == "0" || key == KeyDoubleZero
		if zero {
			if strings.Trim(integer, "0") == "" {
				return
			}
			k.buffer += key
			return
		}
		k.buffer = trimLeadingZeros(integer + key)
		return
	}

	switch {
	case len(fraction) >= 2:
	case key == KeyDoubleZero && len(fraction) == 0:
		k.buffer += "00"
	case key == KeyDoubleZero:
		k.buffer += "0"
	case key == "0" && fraction == "0":
	default:
		k.buffer += key
	}
}

func (k *AmountKeypad) pressDecimal() {
	if k.fresh {
		k.fresh = false
		k.buffer = "0."
		return
	}
	if !strings.Contains(k.buffer, ".") {
		k.buffer += "."
	}
}

func (k *AmountKeypad) backspace() {
	if len(k.buffer) <= 1 {
		k.Clear()
		return
	}
	next := k.buffer[:len(k.buffer)-1]
	if !strings.Contains(next, ".") {
		next = trimLeadingZeros(next)
	}
	k.buffer = next
}

// Clear resets the buffer to "0" as a fresh entry.
func (k *AmountKeypad) Clear() {
	k.buffer = "0"
	k.fresh = true
}

// Preset replaces the buffer with a literal amount.
func (k *AmountKeypad) Preset(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil || d.IsNegative() {
		return ErrInvalidAmount
	}
	k.buffer = amount
	k.fresh = true
	return nil
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
