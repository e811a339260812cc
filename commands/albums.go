package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// ListAlbums prints the title and id of every album, in API order.
// Unlike the upload workflow it follows every page, so operators can check
// which album names already exist.
func ListAlbums(ctx context.Context, lister AlbumLister, w io.Writer) error {
	fetched, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list albums from Google Photos API: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tID")
	for _, album := range fetched {
		fmt.Fprintf(tw, "%s\t%s\n", album.Title, album.ID)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write albums: %w", err)
	}
	fmt.Fprintf(w, "%d albums\n", len(fetched))
	return nil
}
