package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"

	"arayesh-shop/internal/domain"
	"arayesh-shop/internal/importer"
	brandrepo "arayesh-shop/internal/repository/brand"
	categoryrepo "arayesh-shop/internal/repository/category"
	productrepo "arayesh-shop/internal/repository/product"
	sliderepo "arayesh-shop/internal/repository/slide"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed data/products.csv
var productsCSV []byte

var categories = []domain.Category{
	{Slug: "skincare", Name: "مراقبت پوست", ImageURL: "/images/categories/skincare.jpg"},
	{Slug: "makeup", Name: "آرایش", ImageURL: "/images/categories/makeup.jpg"},
	{Slug: "haircare", Name: "مراقبت مو", ImageURL: "/images/categories/haircare.jpg"},
	{Slug: "perfume", Name: "عطر و ادکلن", ImageURL: "/images/categories/perfume.jpg"},
}

var brands = []domain.Brand{
	{Name: "لورآل", LogoURL: "/images/brands/loreal.png"},
	{Name: "میبلین", LogoURL: "/images/brands/maybelline.png"},
	{Name: "سین بیوتیک", LogoURL: "/images/brands/cinere.png"},
}

var slides = []domain.Slide{
	{Title: "تخفیف ویژه مراقبت پوست", ImageURL: "/images/slides/skincare-sale.jpg", LinkURL: "/categories/skincare", Position: 1},
	{Title: "جدیدترین محصولات آرایشی", ImageURL: "/images/slides/makeup-new.jpg", LinkURL: "/categories/makeup", Position: 2},
	{Title: "عطرهای خاص", ImageURL: "/images/slides/perfume.jpg", LinkURL: "/categories/perfume", Position: 3},
}

// Apply inserts demo catalog data for manual testing. Categories, brands
// and products are upserted; slides are only added to an empty slider.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	catRepo := categoryrepo.NewPostgres(pool, logger)
	brandRepo := brandrepo.NewPostgres(pool, logger)
	slideRepo := sliderepo.NewPostgres(pool, logger)

	for _, c := range categories {
		if _, err := catRepo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}
	for _, b := range brands {
		if _, err := brandRepo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("upsert brand %s: %w", b.Name, err)
		}
	}

	existing, err := slideRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list slides: %w", err)
	}
	if len(existing) == 0 {
		for _, s := range slides {
			if _, err := slideRepo.Create(ctx, s); err != nil {
				return fmt.Errorf("create slide %d: %w", s.Position, err)
			}
		}
	}

	imp := importer.NewCSVImporter(bytes.NewReader(productsCSV), productrepo.NewPostgres(pool, logger), keepCategories{catRepo}, keepBrands{brandRepo}, logger)
	n, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	logger.Printf("seed: categories=%d brands=%d slides=%d products=%d", len(categories), len(brands), len(slides), n)
	return nil
}

// keepCategories resolves categories the seed already wrote instead of
// overwriting their image with the importer's bare rows.
type keepCategories struct {
	repo categoryrepo.Repository
}

func (k keepCategories) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if existing, err := k.repo.GetBySlug(ctx, c.Slug); err == nil {
		return existing, nil
	}
	return k.repo.Upsert(ctx, c)
}

type keepBrands struct {
	repo brandrepo.Repository
}

func (k keepBrands) Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error) {
	list, err := k.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range list {
		if existing.Name == b.Name {
			return &existing, nil
		}
	}
	return k.repo.Upsert(ctx, b)
}
