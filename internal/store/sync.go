package store

import (
	"context"
	"fmt"

	"github.com/ccfrost/photodrop/internal/config"
)

// SyncCredentials reconciles the Google Photos credentials in gp with the
// store. Values set in the config are saved to the store; values missing from
// the config are filled in from the store.
func SyncCredentials(ctx context.Context, s PropertyStore, gp *config.GooglePhotosConfig) error {
	settings := []struct {
		Key   string
		Value *string
	}{
		{KeyClientID, &gp.ClientId},
		{KeyClientSecret, &gp.ClientSecret},
		{KeyEmail, &gp.LoginHint},
	}

	for _, setting := range settings {
		if *setting.Value != "" {
			if err := s.SetProperty(ctx, setting.Key, *setting.Value); err != nil {
				return fmt.Errorf("failed to save %s: %w", setting.Key, err)
			}
			continue
		}
		value, ok, err := s.GetProperty(ctx, setting.Key)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", setting.Key, err)
		}
		if ok {
			*setting.Value = value
		}
	}
	return nil
}
