package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptAddon is an addon sub-line under a receipt item.
type ReceiptAddon struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string         `json:"name"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	Total     int64          `json:"total"`
	Addons    []ReceiptAddon `json:"addons,omitempty"`
}

// Receipt is a value object representing a printable receipt. It is not
// stored; it is composed from sale data at print time. Amounts are whole
// Rupiah.
type Receipt struct {
	Header      ReceiptHeader `json:"header"`
	SaleNumber  string        `json:"sale_number"`
	Date        string        `json:"date"`
	Cashier     string        `json:"cashier,omitempty"`
	Customer    string        `json:"customer,omitempty"`
	TableNo     *int          `json:"table_no,omitempty"`
	PaymentType string        `json:"payment_type,omitempty"`
	Items       []ReceiptItem `json:"items"`
	Subtotal    int64         `json:"subtotal"`
	Discount    int64         `json:"discount"`
	Tax         int64         `json:"tax"`
	Service     int64         `json:"service"`
	Total       int64         `json:"total"`
	Tendered    int64         `json:"tendered"`
	Change      int64         `json:"change"`
}
