// AngelaMos | 2026
// cloudinary.go

package images

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Kukusha-yon/carecorner-sub000/internal/config"
)

type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(
	cfg config.CloudinaryConfig,
) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(
		cfg.CloudName,
		cfg.APIKey,
		cfg.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &CloudinaryUploader{
		client: client,
		folder: cfg.Folder,
	}, nil
}

func (u *CloudinaryUploader) Upload(
	ctx context.Context,
	r io.Reader,
	folder string,
) (*Image, error) {
	if folder == "" {
		folder = u.folder
	}

	resp, err := u.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &Image{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}

func (u *CloudinaryUploader) Delete(
	ctx context.Context,
	publicID string,
) error {
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	return nil
}

var _ Uploader = (*CloudinaryUploader)(nil)
