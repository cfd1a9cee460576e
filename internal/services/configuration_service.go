package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"caseshop/internal/domain"
	"caseshop/internal/infra"
	"caseshop/internal/infra/storage"
	"caseshop/internal/metrics"
	"caseshop/internal/placement"
	"caseshop/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const configurationCacheTTL = 10 * time.Second

type ConfigurationService struct {
	repo        repository.ConfigurationRepository
	images      infra.ImageClientInterface
	store       storage.ObjectStore
	redisClient *redis.Client
}

func NewConfigurationService(r repository.ConfigurationRepository, images infra.ImageClientInterface, store storage.ObjectStore) *ConfigurationService {
	return &ConfigurationService{
		repo:   r,
		images: images,
		store:  store,
	}
}

func (s *ConfigurationService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// UploadedImage is a file the storage service has accepted. Width and Height
// are zero when the uploader did not measure the image.
type UploadedImage struct {
	URL    string
	Width  int
	Height int
}

// HandleUploadComplete runs after every upload. Without configID the upload is
// the source photo of a new configuration; with it, the upload is the
// composited design for that configuration.
func (s *ConfigurationService) HandleUploadComplete(ctx context.Context, img UploadedImage, configID string) (*domain.Configuration, error) {
	if !s.store.Owns(img.URL) {
		log.Printf("Rejected upload callback for foreign url %q", img.URL)
		return nil, domain.ErrForeignImageURL
	}

	if configID == "" {
		width, height := img.Width, img.Height
		if width <= 0 || height <= 0 {
			width, height = s.measure(ctx, img.URL)
		}

		c := &domain.Configuration{
			ImageURL: img.URL,
			Width:    width,
			Height:   height,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		log.Printf("Configuration %s created (%dx%d)", c.ID, c.Width, c.Height)
		return c, nil
	}

	c, err := s.repo.UpdateCroppedImage(ctx, configID, img.URL)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrConfigurationNotFound
	}
	s.invalidate(ctx, configID)
	return c, nil
}

func (s *ConfigurationService) measure(ctx context.Context, url string) (int, int) {
	width, height, err := s.images.Dimensions(ctx, url)
	if err != nil {
		log.Printf("Could not measure %s, using defaults: %v", url, err)
	}
	if width <= 0 {
		width = domain.DefaultImageWidth
	}
	if height <= 0 {
		height = domain.DefaultImageHeight
	}
	return width, height
}

func (s *ConfigurationService) GetConfiguration(ctx context.Context, id string) (*domain.Configuration, error) {
	if id == "" {
		return nil, domain.ErrConfigurationNotFound
	}

	cacheKey := configurationCacheKey(id)
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var c domain.Configuration
			if err := json.Unmarshal([]byte(cached), &c); err == nil {
				return &c, nil
			}
		}
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrConfigurationNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(c); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, configurationCacheTTL)
		}
	}
	return c, nil
}

func (s *ConfigurationService) SaveOptions(ctx context.Context, id string, o domain.Options) error {
	if err := s.repo.UpdateOptions(ctx, id, o); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// DesignInput is what the configurator measured when the user confirmed.
// Overlay X/Y are relative to Container; Container and Template are
// on-screen bounding rectangles.
type DesignInput struct {
	Container placement.Rect
	Template  placement.Rect
	Overlay   placement.Rect
	Options   domain.Options
}

// SaveDesign composites the overlay onto the template canvas, uploads the
// result and stores the option selection. Both writes run concurrently.
func (s *ConfigurationService) SaveDesign(ctx context.Context, id string, in DesignInput) (*domain.Configuration, error) {
	c, err := s.GetConfiguration(ctx, id)
	if err != nil {
		return nil, err
	}

	p := placement.Compute(in.Container, in.Template, in.Overlay)
	if err := p.Validate(); err != nil {
		metrics.DesignsSaved.WithLabelValues("rejected").Inc()
		return nil, errors.Join(domain.ErrDesignNotSaved, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.saveComposite(gctx, c, p)
	})
	g.Go(func() error {
		return s.repo.UpdateOptions(gctx, id, in.Options)
	})
	if err := g.Wait(); err != nil {
		metrics.DesignsSaved.WithLabelValues("failed").Inc()
		log.Printf("Saving design for %s failed: %v", id, err)
		return nil, errors.Join(domain.ErrDesignNotSaved, err)
	}

	metrics.DesignsSaved.WithLabelValues("saved").Inc()
	s.invalidate(ctx, id)
	return s.GetConfiguration(ctx, id)
}

func (s *ConfigurationService) saveComposite(ctx context.Context, c *domain.Configuration, p placement.Placement) error {
	src, err := s.images.Fetch(ctx, c.ImageURL)
	if err != nil {
		return fmt.Errorf("load source image: %w", err)
	}

	canvas, err := placement.Composite(src, p)
	if err != nil {
		return err
	}
	data, err := placement.EncodePNG(canvas)
	if err != nil {
		return fmt.Errorf("encode composite: %w", err)
	}

	key := fmt.Sprintf("configurations/%s/cropped-%s.png", c.ID, uuid.NewString())
	url, err := s.store.Put(ctx, key, "image/png", data)
	if err != nil {
		return err
	}

	updated, err := s.repo.UpdateCroppedImage(ctx, c.ID, url)
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrConfigurationNotFound
	}
	return nil
}

func (s *ConfigurationService) invalidate(ctx context.Context, id string) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, configurationCacheKey(id))
	}
}

func configurationCacheKey(id string) string {
	return "configuration:" + id
}
