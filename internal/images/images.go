// AngelaMos | 2026
// images.go

package images

import (
	"context"
	"io"
)

// Image is a stored upload reference. PublicID is what the backing
// store needs for deletion.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Image, error)
	Delete(ctx context.Context, publicID string) error
}
