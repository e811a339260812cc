package lib

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrAuthorizationRequired = errors.New("authorization required")
	// ErrAlbumUnresolved means an album was requested but no id could be
	// obtained for it.
	ErrAlbumUnresolved = errors.New("album could not be resolved")
)

// AuthorizationRequiredError carries the URL the user must visit to grant
// access. It matches ErrAuthorizationRequired with errors.Is.
type AuthorizationRequiredError struct {
	URL string
}

func (e *AuthorizationRequiredError) Error() string {
	return fmt.Sprintf("%s: open %s", ErrAuthorizationRequired, e.URL)
}

func (e *AuthorizationRequiredError) Is(target error) bool {
	return target == ErrAuthorizationRequired
}

// UploadRequest describes one image to save.
type UploadRequest struct {
	// URL of the image. Required.
	URL string
	// Name is sent as the upload file name hint when set.
	Name        string
	Description string
	// AlbumName selects (or creates) the destination album when set.
	AlbumName string
}

// Request parameter names, shared by the web form and query string.
const (
	ParamURL         = "url"
	ParamName        = "name"
	ParamDescription = "description"
	ParamAlbumName   = "albumName"
)

// RequestFromValues copies form or query values into an UploadRequest
// without validating it. Unknown parameters are ignored.
func RequestFromValues(values url.Values) UploadRequest {
	return UploadRequest{
		URL:         strings.TrimSpace(values.Get(ParamURL)),
		Name:        values.Get(ParamName),
		Description: values.Get(ParamDescription),
		AlbumName:   values.Get(ParamAlbumName),
	}
}

// ParseUploadRequest builds a validated UploadRequest from form or query
// values.
func ParseUploadRequest(values url.Values) (UploadRequest, error) {
	req := RequestFromValues(values)
	if err := req.Validate(); err != nil {
		return UploadRequest{}, err
	}
	return req, nil
}

// Validate checks that URL is an absolute http or https URL.
func (r UploadRequest) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("%w: bad url %q: %v", ErrInvalidRequest, r.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http(s) url: %q", ErrInvalidRequest, r.URL)
	}
	return nil
}
