// Package cdp is a client SDK for the CDP REST API. A Client bundles the
// resource clients behind one configuration and one HTTP transport:
//
//	cfg, err := config.Load(nil)
//	if err != nil { ... }
//	client, err := cdp.New(cfg, nil)
//	if err != nil { ... }
//	link, err := client.Files.DownloadLink(ctx, fileID)
package cdp

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/cdp-sdk-go/config"
	"github.com/eugenenazirov/cdp-sdk-go/events"
	"github.com/eugenenazirov/cdp-sdk-go/files"
	"github.com/eugenenazirov/cdp-sdk-go/internal/transport"
	"github.com/eugenenazirov/cdp-sdk-go/timeseries"
)

// Client provides access to the platform's resource APIs. All resource
// clients share one transport, so retries and rate limiting apply across
// the whole client.
type Client struct {
	Events     *events.Client
	Files      *files.Client
	Timeseries *timeseries.Client
}

// New initializes a Client from the resolved configuration. A nil logger
// disables SDK logging.
func New(cfg config.Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if strings.TrimSpace(cfg.Project) == "" {
		return nil, fmt.Errorf("project is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := transport.New(cfg, logger)
	return &Client{
		Events:     events.NewClient(t),
		Files:      files.NewClient(t),
		Timeseries: timeseries.NewClient(t),
	}, nil
}
