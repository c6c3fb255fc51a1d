// Package timeseries mirrors the Timeseries API. It manages time series
// metadata and moves datapoints in and out of the platform, batching large
// ingestion requests under the per-request datapoint limit.
package timeseries

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/eugenenazirov/cdp-sdk-go/config"
	"github.com/eugenenazirov/cdp-sdk-go/internal/allocator"
	"github.com/eugenenazirov/cdp-sdk-go/internal/timeutil"
	"github.com/eugenenazirov/cdp-sdk-go/internal/transport"
)

const apiVersion = "0.5"

// Transport is the request surface the client needs. *transport.Client
// implements it; tests may substitute a fake.
type Transport interface {
	Get(ctx context.Context, rawURL string, params url.Values, out any) error
	Post(ctx context.Context, rawURL string, params url.Values, body, out any, opts ...transport.RequestOption) error
	Put(ctx context.Context, rawURL string, body, out any) error
	Delete(ctx context.Context, rawURL string, params url.Values, out any) error
	ProjectURL(version, suffix string) string
}

// Client accesses the Timeseries API.
type Client struct {
	transport Transport
}

// NewClient constructs a Timeseries API client on top of the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Create registers new time series.
func (c *Client) Create(ctx context.Context, series []Timeseries) error {
	u := c.transport.ProjectURL(apiVersion, "/timeseries")
	return c.transport.Post(ctx, u, nil, itemsRequest{Items: series}, nil)
}

// Update changes attributes of existing time series.
func (c *Client) Update(ctx context.Context, series []Timeseries) error {
	u := c.transport.ProjectURL(apiVersion, "/timeseries")
	return c.transport.Put(ctx, u, itemsRequest{Items: series}, nil)
}

// Delete removes the named time series.
func (c *Client) Delete(ctx context.Context, name string) error {
	u := c.transport.ProjectURL(apiVersion, "/timeseries/"+url.PathEscape(name))
	return c.transport.Delete(ctx, u, nil, nil)
}

// List returns one page of time series matching the options.
func (c *Client) List(ctx context.Context, opts ListOptions) (ListResponse, error) {
	params := url.Values{}
	if opts.Prefix != "" {
		params.Set("q", opts.Prefix)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.IncludeMetadata {
		params.Set("includeMetadata", "true")
	}
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var envelope listEnvelope
	u := c.transport.ProjectURL(apiVersion, "/timeseries")
	if err := c.transport.Get(ctx, u, params, &envelope); err != nil {
		return ListResponse{}, err
	}

	return ListResponse{
		Items:      envelope.Data.Items,
		NextCursor: envelope.Data.NextCursor,
	}, nil
}

// InsertDatapoints ingests datapoints into the named series. Requests are
// gzip-compressed and chunked at the per-request datapoint limit.
func (c *Client) InsertDatapoints(ctx context.Context, name string, datapoints []Datapoint) error {
	u := c.transport.ProjectURL(apiVersion, "/timeseries/data/"+url.PathEscape(name))
	for start := 0; start < len(datapoints); start += config.DatapointLimit {
		end := min(start+config.DatapointLimit, len(datapoints))
		body := itemsRequest{Items: datapoints[start:end]}
		if err := c.transport.Post(ctx, u, nil, body, nil, transport.WithGzip()); err != nil {
			return err
		}
	}
	return nil
}

// InsertMultiSeriesDatapoints ingests datapoints into several series at once.
// Series over the per-request datapoint limit are split into limit-sized
// chunks, and the chunks are packed into as few requests as the first-fit-
// decreasing heuristic achieves.
func (c *Client) InsertMultiSeriesDatapoints(ctx context.Context, series []SeriesDatapoints) error {
	chunks := make([]SeriesDatapoints, 0, len(series))
	for _, s := range series {
		chunks = append(chunks, splitOverLimit(s, config.DatapointLimit)...)
	}

	bins, err := allocator.Pack(chunks, config.DatapointLimit, func(s SeriesDatapoints) int {
		return len(s.Datapoints)
	})
	if err != nil {
		return fmt.Errorf("batch datapoints: %w", err)
	}

	u := c.transport.ProjectURL(apiVersion, "/timeseries/data")
	for _, bin := range bins {
		body := itemsRequest{Items: bin}
		if err := c.transport.Post(ctx, u, nil, body, nil, transport.WithGzip()); err != nil {
			return err
		}
	}
	return nil
}

// splitOverLimit cuts a series into chunks of at most limit datapoints.
func splitOverLimit(s SeriesDatapoints, limit int) []SeriesDatapoints {
	if len(s.Datapoints) <= limit {
		return []SeriesDatapoints{s}
	}

	out := make([]SeriesDatapoints, 0, (len(s.Datapoints)+limit-1)/limit)
	for start := 0; start < len(s.Datapoints); start += limit {
		end := min(start+limit, len(s.Datapoints))
		out = append(out, SeriesDatapoints{Name: s.Name, Datapoints: s.Datapoints[start:end]})
	}
	return out
}

// RetrieveDatapoints fetches datapoints for the named series.
func (c *Client) RetrieveDatapoints(ctx context.Context, name string, opts QueryOptions) (DatapointsResponse, error) {
	start, end, err := timeutil.IntervalToMS(opts.Start, opts.End)
	if err != nil {
		return DatapointsResponse{}, err
	}

	params := url.Values{}
	params.Set("start", strconv.FormatInt(start, 10))
	params.Set("end", strconv.FormatInt(end, 10))
	if len(opts.Aggregates) > 0 {
		params.Set("aggregates", strings.Join(opts.Aggregates, ","))
	}
	if opts.Granularity != "" {
		if _, err := timeutil.GranularityToMS(opts.Granularity); err != nil {
			return DatapointsResponse{}, err
		}
		params.Set("granularity", opts.Granularity)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = config.DatapointLimit
		if len(opts.Aggregates) > 0 {
			limit = config.AggregateLimit
		}
	}
	params.Set("limit", strconv.Itoa(limit))

	var envelope datapointsEnvelope
	u := c.transport.ProjectURL(apiVersion, "/timeseries/data/"+url.PathEscape(name))
	if err := c.transport.Get(ctx, u, params, &envelope); err != nil {
		return DatapointsResponse{}, err
	}

	if len(envelope.Data.Items) == 0 {
		return DatapointsResponse{Name: name}, nil
	}
	return envelope.Data.Items[0], nil
}

// RetrieveMultiSeriesDatapoints fetches datapoints for several series in a
// single request. Request-level aggregates and granularity apply to every
// query that does not carry its own. When a granularity is given the interval
// is aligned to whole granularity multiples so aggregate windows line up
// across series.
func (c *Client) RetrieveMultiSeriesDatapoints(ctx context.Context, queries []DatapointsQuery, opts QueryOptions) ([]DatapointsResponse, error) {
	start, end, err := timeutil.IntervalToMS(opts.Start, opts.End)
	if err != nil {
		return nil, err
	}

	if opts.Granularity != "" {
		granMS, err := timeutil.GranularityToMS(opts.Granularity)
		if err != nil {
			return nil, err
		}
		start = timeutil.RoundToNearest(start, granMS)
		end = timeutil.RoundToNearest(end, granMS)
	}

	body := multiQueryRequest{
		Items:       queries,
		Start:       start,
		End:         end,
		Aggregates:  strings.Join(opts.Aggregates, ","),
		Granularity: opts.Granularity,
	}

	var envelope datapointsEnvelope
	u := c.transport.ProjectURL(apiVersion, "/timeseries/dataquery")
	if err := c.transport.Post(ctx, u, nil, body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Items, nil
}

// RetrieveLatest fetches the most recent datapoint of the named series.
func (c *Client) RetrieveLatest(ctx context.Context, name string) (Datapoint, error) {
	var envelope latestEnvelope
	u := c.transport.ProjectURL(apiVersion, "/timeseries/latest/"+url.PathEscape(name))
	if err := c.transport.Get(ctx, u, nil, &envelope); err != nil {
		return Datapoint{}, err
	}

	if len(envelope.Data.Items) == 0 {
		return Datapoint{}, fmt.Errorf("no datapoints in series %q", name)
	}
	return envelope.Data.Items[0], nil
}
