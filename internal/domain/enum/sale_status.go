package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the lifecycle of a recorded sale.
// Unpaid and Pending sales count as "active" for table occupancy.
type SaleStatus int

const (
	SaleStatusUnpaid  SaleStatus = 0
	SaleStatusPending SaleStatus = 1
	SaleStatusPaid    SaleStatus = 2
	SaleStatusVoided  SaleStatus = 3
)

func (s SaleStatus) String() string {
	names := [...]string{"Unpaid", "Pending", "Paid", "Voided"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unpaid"
	}
	return names[s]
}

// IsActive reports whether the sale still occupies its table.
func (s SaleStatus) IsActive() bool {
	return s == SaleStatusUnpaid || s == SaleStatusPending
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Unpaid":
		*s = SaleStatusUnpaid
	case "Pending":
		*s = SaleStatusPending
	case "Paid":
		*s = SaleStatusPaid
	case "Voided":
		*s = SaleStatusVoided
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
