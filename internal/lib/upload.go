//go:generate go run github.com/golang/mock/mockgen -source=${GOFILE} -destination=mock_authorizer_test.go -package=lib Authorizer

package lib

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
)

// Authorizer reports whether the user has granted access and hands out bearer
// tokens. *auth.Service implements it.
type Authorizer interface {
	IsAuthorized(ctx context.Context) bool
	AuthorizationURL(ctx context.Context) (string, error)
	AccessToken(ctx context.Context) (string, error)
}

// Uploader saves images from URLs to Google Photos.
type Uploader struct {
	auth    Authorizer
	photos  *googlephotos.Client
	metrics *Metrics
	logger  *slog.Logger
}

// NewUploader returns an Uploader. metrics may be nil.
func NewUploader(auth Authorizer, photos *googlephotos.Client, metrics *Metrics) *Uploader {
	return &Uploader{
		auth:    auth,
		photos:  photos,
		metrics: metrics,
		logger:  logger,
	}
}

// SaveToPhotos fetches req.URL, uploads it, and creates a media item for it,
// in req.AlbumName when set. The album is created if no album has exactly that
// title. The first failing step ends the run; nothing is retried or undone.
//
// Without authorization no remote call is made and the error is an
// *AuthorizationRequiredError.
func (u *Uploader) SaveToPhotos(ctx context.Context, req UploadRequest) (*googlephotos.MediaItemResult, error) {
	result, err := u.saveToPhotos(ctx, req)
	u.metrics.ObserveOutcome(outcomeOf(err))
	return result, err
}

func (u *Uploader) saveToPhotos(ctx context.Context, req UploadRequest) (*googlephotos.MediaItemResult, error) {
	if !u.auth.IsAuthorized(ctx) {
		authURL, err := u.auth.AuthorizationURL(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to build authorization url: %w", err)
		}
		return nil, &AuthorizationRequiredError{URL: authURL}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	accessToken, err := u.auth.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	var payload *googlephotos.ImagePayload
	err = u.step(googlephotos.OpFetchImage, func() (err error) {
		payload, err = u.photos.FetchImage(ctx, req.URL)
		return err
	})
	if err != nil {
		return nil, err
	}

	var uploadToken string
	err = u.step(googlephotos.OpUploadBytes, func() (err error) {
		uploadToken, err = u.photos.UploadBytes(ctx, accessToken, req.Name, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.logger.Debug("Uploaded bytes", slog.String("upload_token", uploadToken))

	var albumID string
	if req.AlbumName != "" {
		album, err := u.resolveAlbum(ctx, accessToken, req.AlbumName)
		if err != nil {
			return nil, err
		}
		u.logger.Debug("Resolved album", slog.String("album_id", album.ID), slog.String("title", album.Title))
		albumID = album.ID
	}

	var result *googlephotos.MediaItemResult
	err = u.step(googlephotos.OpCreateMediaItem, func() (err error) {
		result, err = u.photos.CreateMediaItem(ctx, accessToken, googlephotos.BatchCreateRequest{
			AlbumID: albumID,
			NewMediaItems: []googlephotos.NewMediaItem{{
				Description:     req.Description,
				SimpleMediaItem: googlephotos.SimpleMediaItem{UploadToken: uploadToken},
			}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{slog.String("url", req.URL), slog.String("album_id", albumID)}
	for _, item := range result.MediaItems() {
		attrs = append(attrs, slog.String("media_item_id", item.ID))
	}
	u.logger.Info("Saved image to Google Photos", attrs...)
	return result, nil
}

// resolveAlbum returns the first album titled exactly title, creating one if
// none is listed. Only the first page of albums is searched.
func (u *Uploader) resolveAlbum(ctx context.Context, accessToken, title string) (*googlephotos.Album, error) {
	var albums []googlephotos.Album
	err := u.step(googlephotos.OpGetAlbums, func() (err error) {
		albums, err = u.photos.ListAlbums(ctx, accessToken)
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range albums {
		if albums[i].Title == title {
			return requireAlbumID(&albums[i], "listed", title)
		}
	}

	var album *googlephotos.Album
	err = u.step(googlephotos.OpCreateAlbum, func() (err error) {
		album, err = u.photos.CreateAlbum(ctx, accessToken, title)
		return err
	})
	if err != nil {
		return nil, err
	}
	if album, err = requireAlbumID(album, "created", title); err != nil {
		return nil, err
	}
	u.logger.Info("Created album", slog.String("album_id", album.ID), slog.String("title", title))
	return album, nil
}

// requireAlbumID rejects an album without an id, so a requested album never
// degrades into an album-less upload.
func requireAlbumID(album *googlephotos.Album, source, title string) (*googlephotos.Album, error) {
	if album == nil || album.ID == "" {
		return nil, fmt.Errorf("%w: %s album %q has no id", ErrAlbumUnresolved, source, title)
	}
	return album, nil
}

func (u *Uploader) step(op googlephotos.Op, fn func() error) error {
	start := time.Now()
	err := fn()
	u.metrics.ObserveStep(op, time.Since(start), err)
	if err != nil {
		u.logger.Debug("Remote call failed", slog.String("op", string(op)), slog.Any("error", err))
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrAuthorizationRequired):
		return OutcomeUnauthorized
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}
