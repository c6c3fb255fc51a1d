package files

// UploadRequest holds metadata for a file upload.
type UploadRequest struct {
	Name        string
	Directory   string
	Source      string
	FileType    string
	ContentType string
	Metadata    map[string]string
	AssetIDs    []int64
	Resumable   *bool
	Overwrite   bool
}

// UploadResult is returned by Upload. UploadURL is empty when the file
// contents were uploaded directly by the SDK.
type UploadResult struct {
	FileID    int64  `json:"fileId"`
	UploadURL string `json:"uploadURL,omitempty"`
}

// FileInfo describes a stored file.
type FileInfo struct {
	ID         int64             `json:"id"`
	FileName   string            `json:"fileName"`
	Directory  string            `json:"directory,omitempty"`
	Source     string            `json:"source,omitempty"`
	FileType   string            `json:"fileType,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	AssetIDs   []int64           `json:"assetIds,omitempty"`
	Uploaded   bool              `json:"uploaded"`
	UploadedAt int64             `json:"uploadedAt,omitempty"`
}

// ListOptions narrows a List call.
type ListOptions struct {
	Name       string
	Directory  string
	FileType   string
	Source     string
	AssetID    int64
	Sort       string
	Limit      int
	IsUploaded *bool
	Autopaging bool
	Cursor     string
}

// ListResponse holds the files matching a List call, plus the cursor for the
// next page when autopaging was disabled and more results exist.
type ListResponse struct {
	Items      []FileInfo
	NextCursor string
}

// DeleteResult reports which file IDs were deleted and which failed.
type DeleteResult struct {
	Deleted []int64 `json:"deleted"`
	Failed  []int64 `json:"failed"`
}

type uploadBody struct {
	FileName  string            `json:"fileName"`
	Directory string            `json:"directory,omitempty"`
	Source    string            `json:"source,omitempty"`
	FileType  string            `json:"fileType,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	AssetIDs  []int64           `json:"assetIds,omitempty"`
}

type itemsRequest struct {
	Items any `json:"items"`
}

type uploadEnvelope struct {
	Data UploadResult `json:"data"`
}

type listEnvelope struct {
	Data struct {
		Items      []FileInfo `json:"items"`
		NextCursor string     `json:"nextCursor"`
	} `json:"data"`
}

type infoEnvelope struct {
	Data FileInfo `json:"data"`
}

type linkEnvelope struct {
	Data string `json:"data"`
}

type deleteEnvelope struct {
	Data DeleteResult `json:"data"`
}
