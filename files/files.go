// Package files mirrors the Files API. It uploads file metadata and
// contents via signed upload links, and lists, downloads and deletes
// stored files.
package files

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/eugenenazirov/cdp-sdk-go/internal/transport"
)

const apiVersion = "0.5"

// listPageLimit is used per page while autopaging, disregarding the
// caller's limit.
const listPageLimit = 10_000

// Transport is the request surface the client needs. *transport.Client
// implements it; tests may substitute a fake.
type Transport interface {
	Get(ctx context.Context, rawURL string, params url.Values, out any) error
	Post(ctx context.Context, rawURL string, params url.Values, body, out any, opts ...transport.RequestOption) error
	RawGet(ctx context.Context, rawURL string) ([]byte, error)
	RawPut(ctx context.Context, rawURL string, body io.Reader, contentLength int64, headers map[string]string) error
	ProjectURL(version, suffix string) string
}

// Client accesses the Files API.
type Client struct {
	transport Transport
}

// NewClient constructs a Files API client on top of the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Upload registers file metadata and obtains an upload link. When filePath is
// non-empty the contents are uploaded through the link immediately and the
// link is dropped from the result; otherwise the caller uploads through the
// returned one-time URL.
func (c *Client) Upload(ctx context.Context, req UploadRequest, filePath string) (UploadResult, error) {
	params := url.Values{}
	resumable := true
	if req.Resumable != nil {
		resumable = *req.Resumable
	}
	params.Set("resumable", strconv.FormatBool(resumable))
	params.Set("overwrite", strconv.FormatBool(req.Overwrite))

	body := uploadBody{
		FileName:  req.Name,
		Directory: req.Directory,
		Source:    req.Source,
		FileType:  req.FileType,
		Metadata:  req.Metadata,
		AssetIDs:  req.AssetIDs,
	}

	var envelope uploadEnvelope
	u := c.transport.ProjectURL(apiVersion, "/files/initupload")
	if err := c.transport.Post(ctx, u, params, body, &envelope); err != nil {
		return UploadResult{}, err
	}
	result := envelope.Data

	if filePath == "" {
		return result, nil
	}

	if err := c.uploadContents(ctx, result.UploadURL, filePath, req.ContentType); err != nil {
		return UploadResult{}, err
	}
	result.UploadURL = ""
	return result, nil
}

func (c *Client) uploadContents(ctx context.Context, uploadURL, filePath, contentType string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	headers := map[string]string{
		"content-length": strconv.FormatInt(info.Size(), 10),
	}
	if contentType != "" {
		headers["content-type"] = contentType
	}

	if err := c.transport.RawPut(ctx, uploadURL, file, info.Size(), headers); err != nil {
		return fmt.Errorf("upload contents: %w", err)
	}
	return nil
}

// DownloadLink returns a download link for the file.
func (c *Client) DownloadLink(ctx context.Context, id int64) (string, error) {
	var envelope linkEnvelope
	u := c.transport.ProjectURL(apiVersion, fmt.Sprintf("/files/%d/downloadlink", id))
	if err := c.transport.Get(ctx, u, nil, &envelope); err != nil {
		return "", err
	}
	return envelope.Data, nil
}

// Download fetches the file contents through a fresh download link.
func (c *Client) Download(ctx context.Context, id int64) ([]byte, error) {
	link, err := c.DownloadLink(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.transport.RawGet(ctx, link)
}

// List returns files matching the options. With Autopaging set it follows
// cursors until the listing is exhausted.
func (c *Client) List(ctx context.Context, opts ListOptions) (ListResponse, error) {
	params := url.Values{}
	if opts.Name != "" {
		params.Set("name", opts.Name)
	}
	if opts.Directory != "" {
		params.Set("dir", opts.Directory)
	}
	if opts.FileType != "" {
		params.Set("type", opts.FileType)
	}
	if opts.Source != "" {
		params.Set("source", opts.Source)
	}
	if opts.AssetID != 0 {
		params.Set("assetId", strconv.FormatInt(opts.AssetID, 10))
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.IsUploaded != nil {
		params.Set("isUploaded", strconv.FormatBool(*opts.IsUploaded))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if opts.Autopaging {
		limit = listPageLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	u := c.transport.ProjectURL(apiVersion, "/files")

	var result ListResponse
	for {
		var envelope listEnvelope
		if err := c.transport.Get(ctx, u, params, &envelope); err != nil {
			return ListResponse{}, err
		}
		result.Items = append(result.Items, envelope.Data.Items...)
		result.NextCursor = envelope.Data.NextCursor

		if !opts.Autopaging || envelope.Data.NextCursor == "" {
			return result, nil
		}
		params.Set("cursor", envelope.Data.NextCursor)
	}
}

// Delete removes the files with the given IDs and reports which deletions
// succeeded and which failed.
func (c *Client) Delete(ctx context.Context, ids []int64) (DeleteResult, error) {
	var envelope deleteEnvelope
	u := c.transport.ProjectURL(apiVersion, "/files/delete")
	if err := c.transport.Post(ctx, u, nil, itemsRequest{Items: ids}, &envelope); err != nil {
		return DeleteResult{}, err
	}
	return envelope.Data, nil
}

// Info returns metadata about the file.
func (c *Client) Info(ctx context.Context, id int64) (FileInfo, error) {
	var envelope infoEnvelope
	u := c.transport.ProjectURL(apiVersion, fmt.Sprintf("/files/%d", id))
	if err := c.transport.Get(ctx, u, nil, &envelope); err != nil {
		return FileInfo{}, err
	}
	return envelope.Data, nil
}
