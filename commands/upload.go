package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ccfrost/photodrop/internal/lib"
)

// Upload runs the upload workflow once and prints the created media items.
// Missing authorization is reported with the URL to open rather than as a
// failure, since it is the normal first-run state.
func Upload(ctx context.Context, workflow UploadWorkflow, req lib.UploadRequest, w io.Writer) error {
	result, err := workflow.SaveToPhotos(ctx, req)
	var authErr *lib.AuthorizationRequiredError
	if errors.As(err, &authErr) {
		fmt.Fprintf(w, "Not authorized yet. Open this URL, grant access, then re-run:\n%s\n", authErr.URL)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", req.URL, err)
	}

	items := result.MediaItems()
	if len(items) == 0 {
		fmt.Fprintln(w, "Saved, but the response named no media item")
		return nil
	}
	for _, item := range items {
		if item.ProductURL != "" {
			fmt.Fprintf(w, "Saved media item %s: %s\n", item.ID, item.ProductURL)
		} else {
			fmt.Fprintf(w, "Saved media item %s\n", item.ID)
		}
	}
	return nil
}
