//go:generate go run github.com/golang/mock/mockgen -source=${GOFILE} -destination=zz_generated_local_mocks_test.go -package=commands AlbumLister,UploadWorkflow

package commands

import (
	"context"

	"github.com/ccfrost/photodrop/internal/lib"
	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/gphotosuploader/google-photos-api-client-go/v3/albums"
)

// AlbumLister lists every album, following pagination.
// The gphotosuploader client's Albums service implements it.
type AlbumLister interface {
	List(ctx context.Context) ([]albums.Album, error)
}

// UploadWorkflow saves one image. *lib.Uploader implements it.
type UploadWorkflow interface {
	SaveToPhotos(ctx context.Context, req lib.UploadRequest) (*googlephotos.MediaItemResult, error)
}
