package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TableStatus is the persisted status flag on a dining table. Occupancy is
// derived from active sales OR this flag; the flag alone can go stale.
type TableStatus int

const (
	TableStatusAvailable TableStatus = 0
	TableStatusOccupied  TableStatus = 1
)

func (t TableStatus) String() string {
	names := [...]string{"Available", "Occupied"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Available"
	}
	return names[t]
}

func (t TableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TableStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TableStatus(i)
		return nil
	}
	switch str {
	case "Available":
		*t = TableStatusAvailable
	case "Occupied":
		*t = TableStatusOccupied
	}
	return nil
}

func (t TableStatus) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TableStatus) Scan(value interface{}) error {
	if value == nil {
		*t = TableStatusAvailable
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TableStatus(v)
	case int:
		*t = TableStatus(v)
	}
	return nil
}
