package request

// OpenSessionRequest opens a cashier shift with declared starting cash.
// A missing starting_cash means the drawer was not counted; zero declares
// an empty drawer.
type OpenSessionRequest struct {
	StartingCash *int64 `json:"starting_cash" binding:"omitempty,min=0"`
	Notes        string `json:"notes" binding:"max=1000"`
}

// CloseSessionRequest closes the open shift with the counted drawer amount
type CloseSessionRequest struct {
	ActualCash int64  `json:"actual_cash" binding:"min=0"`
	Notes      string `json:"notes" binding:"max=1000"`
}
