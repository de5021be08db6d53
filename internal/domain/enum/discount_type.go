package enum

import "encoding/json"

// DiscountType represents how a cart discount is applied.
type DiscountType int

const (
	DiscountTypePercentage DiscountType = 0
	DiscountTypeFixed      DiscountType = 1
)

func (d DiscountType) String() string {
	names := [...]string{"percentage", "fixed"}
	if int(d) < 0 || int(d) >= len(names) {
		return "percentage"
	}
	return names[d]
}

func (d DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = DiscountType(i)
		return nil
	}
	switch str {
	case "percentage":
		*d = DiscountTypePercentage
	case "fixed":
		*d = DiscountTypeFixed
	}
	return nil
}

// ParseDiscountType maps a wire string to a DiscountType.
func ParseDiscountType(s string) (DiscountType, bool) {
	switch s {
	case "percentage":
		return DiscountTypePercentage, true
	case "fixed":
		return DiscountTypeFixed, true
	}
	return DiscountTypePercentage, false
}
