// Package googlephotos wraps the handful of Google Photos Library API calls
// photodrop makes. Every call has exactly one success status (200); anything
// else is reported as a *StatusError tagged with the operation.
package googlephotos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultBaseURL is the Google Photos Library API root.
const DefaultBaseURL = "https://photoslibrary.googleapis.com/v1"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Op names a remote call.
type Op string

const (
	OpFetchImage      Op = "FetchImage"
	OpUploadBytes     Op = "UploadBytes"
	OpGetAlbums       Op = "GetAlbums"
	OpCreateAlbum     Op = "CreateAlbum"
	OpCreateMediaItem Op = "CreateMediaItem"
)

// StatusError is returned when a remote call answers with anything but 200.
type StatusError struct {
	Op         Op
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%sError: %d", e.Op, e.StatusCode)
}

// StatusCodeOf returns the status code carried by err if it is a *StatusError
// for op.
func StatusCodeOf(err error, op Op) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Op == op {
		return se.StatusCode, true
	}
	return 0, false
}

// Album represents a Google Photos album
type Album struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ProductURL      string `json:"productUrl,omitempty"`
	MediaItemsCount string `json:"mediaItemsCount,omitempty"`
	IsWriteable     bool   `json:"isWriteable,omitempty"`
}

// MediaItem represents a Google Photos media item
type MediaItem struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	ProductURL  string `json:"productUrl,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// ImagePayload is a fetched image, held only until it is uploaded.
type ImagePayload struct {
	Data        []byte
	ContentType string
}

// NewMediaItem is one entry of a batchCreate request.
type NewMediaItem struct {
	Description     string          `json:"description,omitempty"`
	SimpleMediaItem SimpleMediaItem `json:"simpleMediaItem"`
}

type SimpleMediaItem struct {
	UploadToken string `json:"uploadToken"`
}

// BatchCreateRequest is the body of mediaItems:batchCreate.
type BatchCreateRequest struct {
	AlbumID       string         `json:"albumId,omitempty"`
	NewMediaItems []NewMediaItem `json:"newMediaItems"`
}

type ItemStatus struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type NewMediaItemResult struct {
	UploadToken string     `json:"uploadToken,omitempty"`
	Status      ItemStatus `json:"status"`
	MediaItem   *MediaItem `json:"mediaItem,omitempty"`
}

// MediaItemResult is the batchCreate response. It is returned to callers for
// logging and not inspected further.
type MediaItemResult struct {
	NewMediaItemResults []NewMediaItemResult `json:"newMediaItemResults,omitempty"`
	// MediaItem is set by API fronts that answer with a single item.
	MediaItem *MediaItem `json:"mediaItem,omitempty"`
}

// MediaItems returns every created item in the result.
func (r *MediaItemResult) MediaItems() []MediaItem {
	if r == nil {
		return nil
	}
	var items []MediaItem
	if r.MediaItem != nil {
		items = append(items, *r.MediaItem)
	}
	for _, res := range r.NewMediaItemResults {
		if res.MediaItem != nil {
			items = append(items, *res.MediaItem)
		}
	}
	return items
}

// UploadProgress tracks progress of a transfer
type UploadProgress struct {
	Op         Op
	Bytes      int64
	TotalBytes int64 // -1 when unknown
}

// ProgressCallback is called to report transfer progress
type ProgressCallback func(UploadProgress)

// Client handles interaction with Google Photos API
type Client struct {
	httpClient *http.Client
	baseURL    string
	progressCb ProgressCallback
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, eg a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithProgress reports bytes moved while fetching and uploading.
func WithProgress(cb ProgressCallback) Option {
	return func(c *Client) {
		c.progressCb = cb
	}
}

// NewClient returns a Client that sends requests with httpClient.
// Authentication is per call: the caller passes the bearer token.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchImage downloads the image at imageURL without authentication.
func (c *Client) FetchImage(ctx context.Context, imageURL string) (*ImagePayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(OpFetchImage, resp)
	}

	var buf bytes.Buffer
	body := c.track(OpFetchImage, resp.Body, resp.ContentLength)
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mimetype.Detect(buf.Bytes()).String()
	}
	return &ImagePayload{Data: buf.Bytes(), ContentType: contentType}, nil
}

// UploadBytes uploads payload and returns the upload token verbatim.
// name is sent as the file name hint only when non-empty.
func (c *Client) UploadBytes(ctx context.Context, accessToken, name string, payload *ImagePayload) (string, error) {
	body := c.track(OpUploadBytes, bytes.NewReader(payload.Data), int64(len(payload.Data)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/uploads", body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = int64(len(payload.Data))
	setBearer(req, accessToken)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	if payload.ContentType != "" {
		req.Header.Set("X-Goog-Upload-Content-Type", payload.ContentType)
	}
	if name != "" {
		req.Header.Set("X-Goog-Upload-File-Name", name)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload bytes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(OpUploadBytes, resp)
	}
	token, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload token: %w", err)
	}
	return string(token), nil
}

// ListAlbums returns the first page of the user's albums, in API order.
func (c *Client) ListAlbums(ctx context.Context, accessToken string) ([]Album, error) {
	var result struct {
		Albums        []Album `json:"albums"`
		NextPageToken string  `json:"nextPageToken"`
	}
	if err := c.doJSON(ctx, OpGetAlbums, http.MethodGet, "/albums", accessToken, nil, &result); err != nil {
		return nil, err
	}
	return result.Albums, nil
}

// CreateAlbum creates an album titled title.
func (c *Client) CreateAlbum(ctx context.Context, accessToken, title string) (*Album, error) {
	reqBody := map[string]any{
		"album": map[string]string{"title": title},
	}
	var album Album
	if err := c.doJSON(ctx, OpCreateAlbum, http.MethodPost, "/albums", accessToken, reqBody, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// CreateMediaItem turns uploaded bytes into media items, optionally in an album.
func (c *Client) CreateMediaItem(ctx context.Context, accessToken string, reqBody BatchCreateRequest) (*MediaItemResult, error) {
	var result MediaItemResult
	if err := c.doJSON(ctx, OpCreateMediaItem, http.MethodPost, "/mediaItems:batchCreate", accessToken, reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doJSON(ctx context.Context, op Op, method, path, accessToken string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		reqBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	setBearer(req, accessToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(op, resp)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}
	// An empty body decodes to the zero value, eg a user with no albums.
	if len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func setBearer(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
}

func statusError(op Op, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}

func (c *Client) track(op Op, r io.Reader, total int64) io.Reader {
	if c.progressCb == nil {
		return r
	}
	return &progressReader{r: r, op: op, total: total, cb: c.progressCb}
}

type progressReader struct {
	r     io.Reader
	op    Op
	n     int64
	total int64
	cb    ProgressCallback
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.n += int64(n)
		p.cb(UploadProgress{Op: p.op, Bytes: p.n, TotalBytes: p.total})
	}
	return n, err
}
