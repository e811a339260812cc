package auth

import (
	"strings"

	"github.com/ccfrost/photodrop/internal/config"
	"github.com/ccfrost/photodrop/internal/store"
)

// PhotosServiceName keys the Google Photos tokens in the property store.
const PhotosServiceName = "Photos"

// NewPhotosService configures the Google Photos authorizer from cfg.
// Credentials must already be reconciled with the store (store.SyncCredentials).
func NewPhotosService(cfg config.PhotodropConfig, st store.PropertyStore) (*Service, error) {
	gp := cfg.GooglePhotos
	return NewService(Config{
		Name:             PhotosServiceName,
		AuthorizationURL: gp.AuthURL,
		TokenURL:         gp.TokenURL,
		ClientID:         gp.ClientId,
		ClientSecret:     gp.ClientSecret,
		RedirectURL:      cfg.RedirectURL(),
		Store:            st,
		Scopes:           strings.Fields(gp.Scope),
		Params: map[string]string{
			"access_type": "offline",
			"prompt":      "consent",
			"login_hint":  gp.LoginHint,
		},
	})
}
