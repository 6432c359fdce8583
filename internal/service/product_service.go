package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"backend-template/internal/domain"
	"backend-template/internal/repository"
	"backend-template/internal/storage"
)

// ErrSKUTaken is returned when creating a product with an SKU already on file.
var ErrSKUTaken = fmt.Errorf("sku already exists: %w", domain.ErrDuplicateEntity)

// ProductInput describes a product to create.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	SKU         string          `json:"sku"`
}

func (in ProductInput) validate() error {
	return validationFailure(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.Price, nonNegativeDecimal),
		validation.Field(&in.Quantity, validation.Min(0)),
		validation.Field(&in.Category, validation.Length(0, 100)),
		validation.Field(&in.ImageURL, validation.Length(0, 1024)),
		validation.Field(&in.SKU, validation.Required, validation.Length(1, 64)),
	))
}

// ProductUpdate carries the overwritable product fields. The SKU cannot change.
type ProductUpdate struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
}

func (in ProductUpdate) validate() error {
	return validationFailure(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.Price, nonNegativeDecimal),
		validation.Field(&in.Quantity, validation.Min(0)),
		validation.Field(&in.Category, validation.Length(0, 100)),
		validation.Field(&in.ImageURL, validation.Length(0, 1024)),
	))
}

// ImageUpload is a product image to push to object storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageOptions locates product media in object storage. An empty Bucket
// disables image operations.
type ImageOptions struct {
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration
}

// ProductService coordinates catalogue operations backed by repositories.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error)
	SearchByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[*domain.Product], error)
	ListByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Product], error)
	ListInStock(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error)
	Update(ctx context.Context, id string, in ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AttachImage(ctx context.Context, id string, img ImageUpload) (*domain.Product, error)
	ImageURL(ctx context.Context, id string) (string, error)
}

type productService struct {
	products repository.ProductRepository
	storage  storage.Service
	images   ImageOptions
	logger   logrus.FieldLogger
}

func NewProductService(products repository.ProductRepository, store storage.Service, images ImageOptions, logger logrus.FieldLogger) ProductService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if images.URLTTL <= 0 {
		images.URLTTL = 15 * time.Minute
	}
	images.KeyPrefix = strings.Trim(images.KeyPrefix, "/")
	return &productService{
		products: products,
		storage:  store,
		images:   images,
		logger:   logger.WithField("component", "product_service"),
	}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if err := in.validate(); err != nil {
		return nil, err
	}

	log := s.logger.WithField("sku", in.SKU)
	log.WithField("name", in.Name).Info("creating product")

	taken, err := s.products.ExistsBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if taken {
		log.Warn("product rejected: sku already exists")
		return nil, ErrSKUTaken
	}

	product := &domain.Product{
		Base:        domain.Base{IsActive: true},
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    in.ImageURL,
		SKU:         in.SKU,
	}
	if _, err := s.products.Save(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntity) {
			return nil, ErrSKUTaken
		}
		return nil, err
	}

	log.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	s.logger.WithField("product_id", id).Debug("fetching product")
	return s.products.FindActiveByID(ctx, id)
}

func (s *productService) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	sku = strings.TrimSpace(sku)
	s.logger.WithField("sku", sku).Debug("fetching product by sku")
	return s.products.FindBySKU(ctx, sku)
}

func (s *productService) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	s.logger.Debug("listing products")
	return s.products.ListActive(ctx, page)
}

func (s *productService) SearchByName(ctx context.Context, name string, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Page[*domain.Product]{}, domain.NewValidationError("name", "cannot be blank")
	}
	s.logger.WithField("name", name).Debug("searching products by name")
	return s.products.SearchByName(ctx, name, page)
}

func (s *productService) ListByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	s.logger.WithField("category", category).Debug("listing products by category")
	return s.products.FindByCategory(ctx, strings.TrimSpace(category), page)
}

func (s *productService) ListInStock(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Product], error) {
	s.logger.Debug("listing in-stock products")
	return s.products.FindInStock(ctx, page)
}

func (s *productService) Update(ctx context.Context, id string, in ProductUpdate) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.logger.WithField("product_id", id).Info("updating product")
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	domain.ProductDetails{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    in.ImageURL,
	}.Apply(product)

	if _, err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	s.logger.WithField("product_id", id).Info("deleting product")
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Meta().Deactivate()
	_, err = s.products.Save(ctx, product)
	return err
}

func (s *productService) AttachImage(ctx context.Context, id string, img ImageUpload) (*domain.Product, error) {
	if s.storage == nil || s.images.Bucket == "" {
		return nil, storage.ErrNotConfigured
	}
	if img.Body == nil {
		return nil, domain.NewValidationError("file", "cannot be blank")
	}

	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := s.imageKey(product.ID, img.Filename)
	log := s.logger.WithFields(logrus.Fields{"product_id": product.ID, "key": key})
	log.Info("uploading product image")

	location, err := s.storage.Upload(ctx, img.Body, storage.UploadOptions{
		Bucket:      s.images.Bucket,
		Key:         key,
		ContentType: img.ContentType,
	})
	if err != nil {
		return nil, err
	}

	previous := product.ImageURL
	product.ImageURL = location
	if _, err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if bucket, oldKey, err := storage.ParseLocation(previous); err == nil && bucket == s.images.Bucket && oldKey != key {
		if err := s.storage.DeleteObject(ctx, bucket, oldKey); err != nil {
			log.WithError(err).Warn("remove previous product image")
		}
	}
	return product, nil
}

func (s *productService) ImageURL(ctx context.Context, id string) (string, error) {
	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		return "", err
	}
	if product.ImageURL == "" {
		return "", fmt.Errorf("product %s image: %w", id, domain.ErrNotFound)
	}

	bucket, key, err := storage.ParseLocation(product.ImageURL)
	if err != nil {
		// external URL supplied by the catalogue editor
		return product.ImageURL, nil
	}
	if s.storage == nil || s.images.Bucket == "" {
		return "", storage.ErrNotConfigured
	}
	if bucket != s.images.Bucket {
		return "", fmt.Errorf("product %s image is stored in bucket %q", id, bucket)
	}
	return s.storage.GetObjectURL(ctx, bucket, key, s.images.URLTTL)
}

func (s *productService) imageKey(productID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	if len(ext) > 10 {
		ext = ""
	}
	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext)
	if s.images.KeyPrefix != "" {
		key = s.images.KeyPrefix + "/" + key
	}
	return key
}
