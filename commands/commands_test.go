package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccfrost/photodrop/internal/lib"
	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/ccfrost/photodrop/internal/store"
	"github.com/golang/mock/gomock"
	"github.com/gphotosuploader/google-photos-api-client-go/v3/albums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAlbums(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := NewMockAlbumLister(ctrl)
	lister.EXPECT().List(gomock.Any()).Return([]albums.Album{
		{ID: "A1", Title: "Trip"},
		{ID: "A2", Title: "Home videos"},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, ListAlbums(context.Background(), lister, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"TITLE", "ID"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Trip", "A1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Home", "videos", "A2"}, strings.Fields(lines[2]))
	assert.Equal(t, "2 albums", lines[3])
}

func TestListAlbums_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := NewMockAlbumLister(ctrl)
	lister.EXPECT().List(gomock.Any()).Return(nil, errors.New("quota"))

	var out bytes.Buffer
	err := ListAlbums(context.Background(), lister, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
	assert.Empty(t, out.String())
}

func TestUpload(t *testing.T) {
	req := lib.UploadRequest{URL: "https://example.com/img.png", AlbumName: "Trip"}

	tests := []struct {
		name     string
		result   *googlephotos.MediaItemResult
		err      error
		wantErr  bool
		wantText string
	}{
		{
			name:     "saved",
			result:   &googlephotos.MediaItemResult{MediaItem: &googlephotos.MediaItem{ID: "M1", ProductURL: "https://photos.example.com/M1"}},
			wantText: "Saved media item M1: https://photos.example.com/M1",
		},
		{
			name:     "saved without item",
			result:   &googlephotos.MediaItemResult{},
			wantText: "named no media item",
		},
		{
			name:     "needs authorization",
			err:      &lib.AuthorizationRequiredError{URL: "https://accounts.example.com/auth"},
			wantText: "https://accounts.example.com/auth",
		},
		{
			name:    "failed",
			err:     &googlephotos.StatusError{Op: googlephotos.OpUploadBytes, StatusCode: 500},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			workflow := NewMockUploadWorkflow(ctrl)
			workflow.EXPECT().SaveToPhotos(gomock.Any(), req).Return(tt.result, tt.err)

			var out bytes.Buffer
			err := Upload(context.Background(), workflow, req, &out)
			if tt.wantErr {
				require.Error(t, err)
				code, ok := googlephotos.StatusCodeOf(err, googlephotos.OpUploadBytes)
				assert.True(t, ok)
				assert.Equal(t, 500, code)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantText)
		})
	}
}

func TestProps(t *testing.T) {
	s, err := store.Open("sqlite", filepath.Join(t.TempDir(), "props.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	require.NoError(t, SetProp(ctx, s, store.KeyClientID, "id"))
	require.NoError(t, SetProp(ctx, s, store.KeyClientSecret, "shh"))
	require.NoError(t, SetProp(ctx, s, "oauth2.photos", `{"access_token":"x"}`))

	var out bytes.Buffer
	require.NoError(t, GetProp(ctx, s, store.KeyClientSecret, &out))
	assert.Equal(t, "shh\n", out.String())

	out.Reset()
	require.NoError(t, ListProps(ctx, s, false, &out))
	assert.Equal(t, "CLIENT_ID=id\nCLIENT_SECRET=<redacted>\noauth2.photos=<redacted>\n", out.String())

	out.Reset()
	require.NoError(t, ListProps(ctx, s, true, &out))
	assert.Contains(t, out.String(), "CLIENT_SECRET=shh\n")

	require.NoError(t, DeleteProp(ctx, s, store.KeyClientSecret))
	err = GetProp(ctx, s, store.KeyClientSecret, &out)
	assert.ErrorContains(t, err, "not set")
}

func TestProgressBars(t *testing.T) {
	var out bytes.Buffer
	bars := NewProgressBars(&out)

	bars.Update(googlephotos.UploadProgress{Op: googlephotos.OpFetchImage, Bytes: 512, TotalBytes: 1024})
	bars.Update(googlephotos.UploadProgress{Op: googlephotos.OpFetchImage, Bytes: 1024, TotalBytes: 1024})
	bars.Update(googlephotos.UploadProgress{Op: googlephotos.OpUploadBytes, Bytes: 10, TotalBytes: -1})
	bars.Finish()

	require.Len(t, bars.bars, 2)
	assert.True(t, bars.bars[googlephotos.OpFetchImage].IsFinished())
	assert.Contains(t, bars.bars, googlephotos.OpUploadBytes)
	assert.Contains(t, out.String(), "Downloading:")
}
