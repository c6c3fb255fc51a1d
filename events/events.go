// Package events mirrors the Events API. Events mark intervals on the
// timeline, optionally tied to assets.
package events

import (
	"context"
	"net/url"
	"strconv"

	"github.com/eugenenazirov/cdp-sdk-go/internal/transport"
)

const apiVersion = "0.5"

// Transport is the request surface the client needs. *transport.Client
// implements it; tests may substitute a fake.
type Transport interface {
	Get(ctx context.Context, rawURL string, params url.Values, out any) error
	Post(ctx context.Context, rawURL string, params url.Values, body, out any, opts ...transport.RequestOption) error
	ProjectURL(version, suffix string) string
}

// Client accesses the Events API.
type Client struct {
	transport Transport
}

// NewClient constructs an Events API client on top of the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Create registers new events and returns them with their assigned IDs.
func (c *Client) Create(ctx context.Context, evs []Event) ([]Event, error) {
	var envelope listEnvelope
	u := c.transport.ProjectURL(apiVersion, "/events")
	if err := c.transport.Post(ctx, u, nil, itemsRequest{Items: evs}, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.Items, nil
}

// Retrieve fetches a single event by ID.
func (c *Client) Retrieve(ctx context.Context, id int64) (Event, error) {
	var envelope infoEnvelope
	u := c.transport.ProjectURL(apiVersion, "/events/"+strconv.FormatInt(id, 10))
	if err := c.transport.Get(ctx, u, nil, &envelope); err != nil {
		return Event{}, err
	}
	return envelope.Data, nil
}

// List returns one page of events matching the options.
func (c *Client) List(ctx context.Context, opts ListOptions) (ListResponse, error) {
	params := url.Values{}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.Subtype != "" {
		params.Set("subtype", opts.Subtype)
	}
	if opts.AssetID != 0 {
		params.Set("assetId", strconv.FormatInt(opts.AssetID, 10))
	}
	if opts.MinStartTime != 0 {
		params.Set("minStartTime", strconv.FormatInt(opts.MinStartTime, 10))
	}
	if opts.MaxStartTime != 0 {
		params.Set("maxStartTime", strconv.FormatInt(opts.MaxStartTime, 10))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var envelope listEnvelope
	u := c.transport.ProjectURL(apiVersion, "/events")
	if err := c.transport.Get(ctx, u, params, &envelope); err != nil {
		return ListResponse{}, err
	}

	return ListResponse{
		Items:      envelope.Data.Items,
		NextCursor: envelope.Data.NextCursor,
	}, nil
}

// Delete removes the events with the given IDs.
func (c *Client) Delete(ctx context.Context, ids []int64) error {
	u := c.transport.ProjectURL(apiVersion, "/events/delete")
	return c.transport.Post(ctx, u, nil, itemsRequest{Items: ids}, nil)
}
