package infra

import (
	"context"
	"image"
)

type ImageClientInterface interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
	Dimensions(ctx context.Context, url string) (width, height int, err error)
}

var _ ImageClientInterface = (*ImageClient)(nil)
