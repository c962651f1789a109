package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewSalt returns fresh entropy for ticket ids.
func NewSalt() string {
	return uuid.NewString()
}

// TicketID derives a ticket id from the sale amount, the payment label, the
// time of sale in milliseconds and a random salt.
func TicketID(totalDue decimal.Decimal, methodLabel string, at time.Time, salt string) string {
	return hashHex(totalDue.StringFixed(2), methodLabel, strconv.FormatInt(at.UnixMilli(), 10), salt)
}

// TicketItemID derives a line id. Equal inputs always give the same id.
func TicketItemID(ticketID, sku string, quantity, price decimal.Decimal) string {
	return hashHex(ticketID, sku, quantity.String(), price.String())
}

func hashHex(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
