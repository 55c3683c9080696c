package domain

// ReportRequest is shared by both report builders. Dates use the
// "2006-01-02 15:04:05" layout in UTC; Timezone is an IANA name.
type ReportRequest struct {
	WalletIDs   []int32          `json:"walletIds"`
	CategoryIDs []int32          `json:"categoryIds,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	StartDate   *string          `json:"startDate,omitempty"`
	EndDate     *string          `json:"endDate,omitempty"`
	Timezone    *string          `json:"timezone,omitempty"`
	// Signed sums EXPENSE values as negative in the spending flow series
	Signed bool `json:"signed,omitempty"`
}

// ReportRow is one output row: the day key followed by one or more values
type ReportRow []interface{}

// SpendingFlowReport has the header ["Date","Money"] and rows [day, float64]
type SpendingFlowReport struct {
	Header []string    `json:"header"`
	Data   []ReportRow `json:"data"`
}

// CategoryBreakdownReport has the header ["Date", <category>...] and rows [day, string...]
type CategoryBreakdownReport struct {
	Header []string    `json:"header"`
	Data   []ReportRow `json:"data"`
}
