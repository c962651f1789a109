package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TenderMethod is one of the four ways a customer can pay.
type TenderMethod int

const (
	TenderCash    TenderMethod = 0 // local currency cash
	TenderDollars TenderMethod = 1 // foreign currency cash
	TenderCard    TenderMethod = 2
	TenderOther   TenderMethod = 3
)

// TenderMethods lists every method in display order.
var TenderMethods = []TenderMethod{TenderCash, TenderDollars, TenderCard, TenderOther}

var tenderNames = [...]string{"CASH", "DOLLARS", "CARD", "OTHER"}

func (m TenderMethod) String() string {
	if !m.Valid() {
		return fmt.Sprintf("TenderMethod(%d)", int(m))
	}
	return tenderNames[m]
}

// Valid reports whether m is a known method.
func (m TenderMethod) Valid() bool {
	return m >= TenderCash && m <= TenderOther
}

// ParseTenderMethod accepts the method name in any case.
func ParseTenderMethod(s string) (TenderMethod, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range tenderNames {
		if n == name {
			return TenderMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tender method %q", s)
}

func (m TenderMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *TenderMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !TenderMethod(i).Valid() {
			return fmt.Errorf("unknown tender method %d", i)
		}
		*m = TenderMethod(i)
		return nil
	}
	parsed, err := ParseTenderMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m TenderMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *TenderMethod) Scan(value interface{}) error {
	if value == nil {
		*m = TenderCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = TenderMethod(v)
	case int:
		*m = TenderMethod(v)
	}
	return nil
}
