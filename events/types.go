package events

// Event describes something that happened over an interval. Timestamps are
// epoch milliseconds. ID is assigned by the API and ignored on creation.
type Event struct {
	ID          int64             `json:"id,omitempty"`
	StartTime   int64             `json:"startTime,omitempty"`
	EndTime     int64             `json:"endTime,omitempty"`
	Type        string            `json:"type,omitempty"`
	Subtype     string            `json:"subtype,omitempty"`
	Description string            `json:"description,omitempty"`
	AssetIDs    []int64           `json:"assetIds,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ListOptions narrows a List call. MinStartTime and MaxStartTime bound the
// event start time in epoch milliseconds; zero values are left out.
type ListOptions struct {
	Type         string
	Subtype      string
	AssetID      int64
	MinStartTime int64
	MaxStartTime int64
	Limit        int
	Cursor       string
}

// ListResponse holds one page of events.
type ListResponse struct {
	Items      []Event
	NextCursor string
}

type itemsRequest struct {
	Items any `json:"items"`
}

type listEnvelope struct {
	Data struct {
		Items      []Event `json:"items"`
		NextCursor string  `json:"nextCursor"`
	} `json:"data"`
}

type infoEnvelope struct {
	Data Event `json:"data"`
}
