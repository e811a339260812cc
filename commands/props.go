package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccfrost/photodrop/internal/store"
)

const redacted = "<redacted>"

// isSecret reports whether the value under key should not be printed by
// default: the client secret and stored OAuth tokens.
func isSecret(key string) bool {
	return key == store.KeyClientSecret || strings.HasPrefix(key, "oauth2.")
}

// GetProp prints the value stored under key.
func GetProp(ctx context.Context, s store.PropertyStore, key string, w io.Writer) error {
	value, ok, err := s.GetProperty(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("property %s is not set", key)
	}
	fmt.Fprintln(w, value)
	return nil
}

func SetProp(ctx context.Context, s store.PropertyStore, key, value string) error {
	return s.SetProperty(ctx, key, value)
}

func DeleteProp(ctx context.Context, s store.PropertyStore, key string) error {
	return s.DeleteProperty(ctx, key)
}

// ListProps prints every property as key=value, sorted by key. Secret values
// are redacted unless reveal is set.
func ListProps(ctx context.Context, s store.PropertyStore, reveal bool, w io.Writer) error {
	props, err := s.Properties(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := props[k]
		if isSecret(k) && !reveal {
			v = redacted
		}
		fmt.Fprintf(w, "%s=%s\n", k, v)
	}
	return nil
}
