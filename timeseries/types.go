package timeseries

// Timeseries describes a time series to create or update.
type Timeseries struct {
	Name        string            `json:"name"`
	IsString    bool              `json:"isString,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	AssetIDs    []int64           `json:"assetIds,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Datapoint is a single timestamped value. Timestamp is epoch milliseconds.
type Datapoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// SeriesDatapoints couples a series name with datapoints to ingest into it.
type SeriesDatapoints struct {
	Name       string      `json:"name"`
	Datapoints []Datapoint `json:"datapoints"`
}

// ListOptions narrows a List call.
type ListOptions struct {
	Prefix          string
	Limit           int
	IncludeMetadata bool
	Cursor          string
}

// QueryOptions narrows a RetrieveDatapoints call. Start and End accept the
// same forms as the API: time.Time, time-ago strings such as "2w-ago",
// epoch-millisecond integers, or nil for the defaults.
type QueryOptions struct {
	Start       any
	End         any
	Aggregates  []string
	Granularity string
	Limit       int
}

// DatapointsQuery names one series in a multi-series retrieval. Aggregates
// and Granularity, when set, override the request-level values for this
// series only.
type DatapointsQuery struct {
	Name        string   `json:"name"`
	Aggregates  []string `json:"aggregates,omitempty"`
	Granularity string   `json:"granularity,omitempty"`
}

// ListResponse holds one page of time series.
type ListResponse struct {
	Items      []Timeseries
	NextCursor string
}

// DatapointsResponse holds retrieved datapoints for one series.
type DatapointsResponse struct {
	Name       string      `json:"name"`
	Datapoints []Datapoint `json:"datapoints"`
}

type itemsRequest struct {
	Items any `json:"items"`
}

type multiQueryRequest struct {
	Items       []DatapointsQuery `json:"items"`
	Start       int64             `json:"start"`
	End         int64             `json:"end"`
	Aggregates  string            `json:"aggregates,omitempty"`
	Granularity string            `json:"granularity,omitempty"`
}

type listEnvelope struct {
	Data struct {
		Items      []Timeseries `json:"items"`
		NextCursor string       `json:"nextCursor"`
	} `json:"data"`
}

type datapointsEnvelope struct {
	Data struct {
		Items []DatapointsResponse `json:"items"`
	} `json:"data"`
}

type latestEnvelope struct {
	Data struct {
		Items []Datapoint `json:"items"`
	} `json:"data"`
}
