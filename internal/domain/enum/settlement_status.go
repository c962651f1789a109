package enum

import "encoding/json"

// SettlementStatus tells whether the tendered amount covers the sale.
type SettlementStatus int

const (
	SettlementIncomplete SettlementStatus = 0
	SettlementExact      SettlementStatus = 1
	SettlementChangeDue  SettlementStatus = 2
)

func (s SettlementStatus) String() string {
	return [...]string{"incomplete", "exact", "change_due"}[s]
}

// Label is the text shown on the charge button.
func (s SettlementStatus) Label() string {
	return [...]string{"Pago Incompleto", "Pago Exacto", "Entregar Cambio"}[s]
}

// CanFinalize reports whether the sale may be closed in this state.
func (s SettlementStatus) CanFinalize() bool {
	return s != SettlementIncomplete
}

func (s SettlementStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
