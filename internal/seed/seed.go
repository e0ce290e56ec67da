// Package seed bootstraps an empty database with an admin account and the
// sample digital catalog.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

//go:embed catalog.json
var catalogJSON []byte

// CatalogEntry is one sample product.
type CatalogEntry struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       string          `json:"category"`
	ImageURL       string          `json:"image_url"`
	DigitalFileURL string          `json:"digital_file_url"`
	Stock          int             `json:"stock"`
}

// Catalog returns the embedded sample products.
func Catalog() ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := json.Unmarshal(catalogJSON, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return entries, nil
}

// Options controls the admin account created by Run.
type Options struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	SkipCatalog   bool
}

// OptionsFromConfig maps the seed config section onto Options.
func OptionsFromConfig(cfg config.SeedConfig) Options {
	return Options{
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}
}

// Result summarizes what a seed run changed.
type Result struct {
	AdminCreated    bool
	AdminID         int64
	ProductsCreated int
}

// Seeder inserts bootstrap data. Every step is idempotent.
type Seeder struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewSeeder builds a seeder. logg may be nil.
func NewSeeder(client *db.Client, passwordCfg config.PasswordConfig, logg *logger.Logger) (*Seeder, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &Seeder{db: client, passwordCfg: passwordCfg, logg: logg}, nil
}

// Run creates the admin account when absent and loads the sample catalog
// into an empty products table. Per-product failures are combined.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	adminID, created, err := s.ensureAdmin(ctx, opts)
	if err != nil {
		return res, err
	}
	res.AdminID = adminID
	res.AdminCreated = created

	if opts.SkipCatalog {
		return res, nil
	}
	n, err := s.loadCatalog(ctx)
	res.ProductsCreated = n
	return res, err
}

func (s *Seeder) ensureAdmin(ctx context.Context, opts Options) (int64, bool, error) {
	email := users.NormalizeEmail(opts.AdminEmail)
	if email == "" || opts.AdminPassword == "" {
		return 0, false, fmt.Errorf("admin email and password are required")
	}
	name := strings.TrimSpace(opts.AdminName)
	if name == "" {
		name = "Admin User"
	}

	repo := users.NewRepository(s.db.DB())
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		s.info(ctx, "seed.admin_exists", "email", email)
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := security.HashPassword(opts.AdminPassword, s.passwordCfg)
	if err != nil {
		return 0, false, fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("create admin: %w", err)
	}
	s.info(ctx, "seed.admin_created", "email", email)
	return admin.ID, true, nil
}

func (s *Seeder) loadCatalog(ctx context.Context) (int, error) {
	var existing int64
	if err := s.db.DB().WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		s.info(ctx, "seed.catalog_skipped", "existing", existing)
		return 0, nil
	}

	entries, err := Catalog()
	if err != nil {
		return 0, err
	}

	repo := products.NewRepository(s.db.DB())
	var (
		created int
		errs    error
	)
	for _, entry := range entries {
		product := &models.Product{
			Name:           entry.Name,
			Description:    optional(entry.Description),
			Price:          entry.Price,
			Category:       optional(entry.Category),
			ImageURL:       optional(entry.ImageURL),
			DigitalFileURL: optional(entry.DigitalFileURL),
			Stock:          entry.Stock,
			IsActive:       true,
		}
		if err := repo.Create(ctx, product); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("create product %q: %w", entry.Name, err))
			continue
		}
		created++
	}
	s.info(ctx, "seed.catalog_loaded", "created", created)
	return created, errs
}

func (s *Seeder) info(ctx context.Context, msg, key string, value any) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithField(ctx, key, value), msg)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
