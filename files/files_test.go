package files

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/eugenenazirov/cdp-sdk-go/internal/transport"
)

// fakeTransport records requests and replays canned JSON responses.
type fakeTransport struct {
	calls     []recordedCall
	responses []string

	rawGetBody []byte
	rawPutBody []byte
	rawPutHdrs map[string]string
	rawPutURL  string
}

type recordedCall struct {
	method string
	url    string
	params url.Values
	body   any
}

func (f *fakeTransport) replay(out any) error {
	if out != nil && len(f.responses) > 0 {
		resp := f.responses[0]
		f.responses = f.responses[1:]
		return json.Unmarshal([]byte(resp), out)
	}
	return nil
}

func (f *fakeTransport) Get(ctx context.Context, rawURL string, params url.Values, out any) error {
	cloned := url.Values{}
	for k, v := range params {
		cloned[k] = append([]string(nil), v...)
	}
	f.calls = append(f.calls, recordedCall{method: "GET", url: rawURL, params: cloned})
	return f.replay(out)
}

func (f *fakeTransport) Post(ctx context.Context, rawURL string, params url.Values, body, out any, opts ...transport.RequestOption) error {
	f.calls = append(f.calls, recordedCall{method: "POST", url: rawURL, params: params, body: body})
	return f.replay(out)
}

func (f *fakeTransport) RawGet(ctx context.Context, rawURL string) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{method: "RAWGET", url: rawURL})
	return f.rawGetBody, nil
}

func (f *fakeTransport) RawPut(ctx context.Context, rawURL string, body io.Reader, contentLength int64, headers map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.rawPutBody = data
	f.rawPutHdrs = headers
	f.rawPutURL = rawURL
	f.calls = append(f.calls, recordedCall{method: "RAWPUT", url: rawURL})
	return nil
}

func (f *fakeTransport) ProjectURL(version, suffix string) string {
	return "https://api.example.com/api/" + version + "/projects/test-project" + suffix
}

func TestUpload_MetadataOnly(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{responses: []string{
		`{"data":{"fileId":123,"uploadURL":"https://storage.example.com/signed"}}`,
	}}
	client := NewClient(ft)

	result, err := client.Upload(context.Background(), UploadRequest{Name: "report.pdf"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FileID != 123 {
		t.Fatalf("unexpected file id: %d", result.FileID)
	}
	if result.UploadURL != "https://storage.example.com/signed" {
		t.Fatalf("expected upload URL in result, got %q", result.UploadURL)
	}

	call := ft.calls[0]
	if call.params.Get("resumable") != "true" || call.params.Get("overwrite") != "false" {
		t.Fatalf("unexpected params: %v", call.params)
	}
	body, ok := call.body.(uploadBody)
	if !ok {
		t.Fatalf("unexpected body type %T", call.body)
	}
	if body.FileName != "report.pdf" {
		t.Fatalf("unexpected file name: %q", body.FileName)
	}
}

func TestUpload_WithContents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	ft := &fakeTransport{responses: []string{
		`{"data":{"fileId":123,"uploadURL":"https://storage.example.com/signed"}}`,
	}}
	client := NewClient(ft)

	result, err := client.Upload(context.Background(), UploadRequest{
		Name:        "report.pdf",
		ContentType: "application/pdf",
	}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.UploadURL != "" {
		t.Fatalf("expected upload URL to be dropped after direct upload")
	}
	if ft.rawPutURL != "https://storage.example.com/signed" {
		t.Fatalf("unexpected upload target: %q", ft.rawPutURL)
	}
	if string(ft.rawPutBody) != "pdf bytes" {
		t.Fatalf("unexpected uploaded contents: %q", ft.rawPutBody)
	}
	if ft.rawPutHdrs["content-type"] != "application/pdf" {
		t.Fatalf("unexpected headers: %v", ft.rawPutHdrs)
	}
	if ft.rawPutHdrs["content-length"] != "9" {
		t.Fatalf("unexpected content length: %v", ft.rawPutHdrs)
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{
		responses:  []string{`{"data":"https://storage.example.com/dl"}`},
		rawGetBody: []byte("file contents"),
	}
	client := NewClient(ft)

	contents, err := client.Download(context.Background(), 123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(contents) != "file contents" {
		t.Fatalf("unexpected contents: %q", contents)
	}
	if ft.calls[1].method != "RAWGET" || ft.calls[1].url != "https://storage.example.com/dl" {
		t.Fatalf("expected raw download of signed link, got %+v", ft.calls[1])
	}
}

func TestList_SinglePage(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{responses: []string{
		`{"data":{"items":[{"id":1,"fileName":"a.csv"}],"nextCursor":"next"}}`,
	}}
	client := NewClient(ft)

	isUploaded := true
	res, err := client.List(context.Background(), ListOptions{
		Directory:  "/reports",
		FileType:   "csv",
		IsUploaded: &isUploaded,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := ft.calls[0].params
	if params.Get("dir") != "/reports" || params.Get("type") != "csv" {
		t.Fatalf("unexpected params: %v", params)
	}
	if params.Get("isUploaded") != "true" {
		t.Fatalf("unexpected isUploaded param: %v", params)
	}
	if params.Get("limit") != "100" {
		t.Fatalf("expected default limit, got %q", params.Get("limit"))
	}
	if len(res.Items) != 1 || res.NextCursor != "next" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestList_Autopaging(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{responses: []string{
		`{"data":{"items":[{"id":1,"fileName":"a.csv"}],"nextCursor":"page2"}}`,
		`{"data":{"items":[{"id":2,"fileName":"b.csv"}],"nextCursor":""}}`,
	}}
	client := NewClient(ft)

	res, err := client.List(context.Background(), ListOptions{Autopaging: true, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ft.calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(ft.calls))
	}
	if ft.calls[0].params.Get("limit") != "10000" {
		t.Fatalf("autopaging should disregard the caller limit, got %q", ft.calls[0].params.Get("limit"))
	}
	if ft.calls[1].params.Get("cursor") != "page2" {
		t.Fatalf("expected cursor on second page, got %v", ft.calls[1].params)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected items from both pages, got %d", len(res.Items))
	}
	if res.NextCursor != "" {
		t.Fatalf("expected exhausted cursor, got %q", res.NextCursor)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{responses: []string{
		`{"data":{"deleted":[1,2],"failed":[3]}}`,
	}}
	client := NewClient(ft)

	res, err := client.Delete(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Deleted) != 2 || len(res.Failed) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{responses: []string{
		`{"data":{"id":77,"fileName":"report.pdf","uploaded":true}}`,
	}}
	client := NewClient(ft)

	info, err := client.Info(context.Background(), 77)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.ID != 77 || info.FileName != "report.pdf" || !info.Uploaded {
		t.Fatalf("unexpected info: %+v", info)
	}
}
