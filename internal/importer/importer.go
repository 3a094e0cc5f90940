package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"arayesh-shop/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type BrandWriter interface {
	Upsert(ctx context.Context, brand domain.Brand) (*domain.Brand, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products keyed
// by SKU. Categories and brands named by a row are upserted first.
//
// Expected headers: sku, name, description, price, discount_percentage,
// category_slug, category_name, brand, inventory, image_url, features.
// A row with an empty sku continues the previous product and only adds to
// its features.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	brands     BrandWriter
	logger     *log.Logger

	seenCategories map[string]bool
	brandIDs       map[string]int64
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, brands BrandWriter, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{
		reader:         csvr,
		products:       products,
		categories:     categories,
		brands:         brands,
		logger:         logger,
		seenCategories: map[string]bool{},
		brandIDs:       map[string]int64{},
	}
}

type csvRow struct {
	line         int
	SKU          string
	Name         string
	Desc         string
	Price        string
	Discount     string
	CategorySlug string
	CategoryName string
	Brand        string
	Inventory    string
	ImageURL     string
	Features     []string
}

// Run parses CSV rows and upserts one product per SKU row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["sku"]; !ok {
		return 0, errors.New("read headers: sku column missing")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.SKU != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.Features = append(current.Features, row.Features...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Printf("importer: imported products=%d categories=%d brands=%d", imported, len(i.seenCategories), len(i.brandIDs))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.product()
	if err != nil {
		return err
	}

	if row.CategorySlug != "" && !i.seenCategories[row.CategorySlug] {
		name := row.CategoryName
		if name == "" {
			name = row.CategorySlug
		}
		if _, err := i.categories.Upsert(ctx, domain.Category{Slug: row.CategorySlug, Name: name}); err != nil {
			return fmt.Errorf("upsert category %q: %w", row.CategorySlug, err)
		}
		i.seenCategories[row.CategorySlug] = true
	}

	if row.Brand != "" {
		id, ok := i.brandIDs[row.Brand]
		if !ok {
			b, err := i.brands.Upsert(ctx, domain.Brand{Name: row.Brand})
			if err != nil {
				return fmt.Errorf("upsert brand %q: %w", row.Brand, err)
			}
			id = b.ID
			i.brandIDs[row.Brand] = id
		}
		p.BrandID = &id
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.SKU, err)
	}
	return nil
}

func (r *csvRow) product() (domain.Product, error) {
	if r.Name == "" || r.Price == "" {
		return domain.Product{}, fmt.Errorf("line %d: invalid product row (missing required fields) for sku %q", r.line, r.SKU)
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("line %d: invalid price for sku %q: %s", r.line, r.SKU, r.Price)
	}
	p := domain.Product{
		SKU:          r.SKU,
		Name:         r.Name,
		Description:  r.Desc,
		Price:        price,
		ImageURL:     r.ImageURL,
		Category:     r.CategoryName,
		CategorySlug: r.CategorySlug,
		Brand:        r.Brand,
		Features:     r.Features,
	}
	if r.Discount != "" {
		d, err := strconv.Atoi(r.Discount)
		if err != nil || d < 0 || d > 100 {
			return domain.Product{}, fmt.Errorf("line %d: invalid discount for sku %q: %s", r.line, r.SKU, r.Discount)
		}
		p.DiscountPercentage = &d
	}
	if r.Inventory != "" {
		n, err := strconv.Atoi(r.Inventory)
		if err != nil || n < 0 {
			return domain.Product{}, fmt.Errorf("line %d: invalid inventory for sku %q: %s", r.line, r.SKU, r.Inventory)
		}
		p.Inventory = &n
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		SKU:          pick(record, index, "sku"),
		Name:         pick(record, index, "name"),
		Desc:         pick(record, index, "description"),
		Price:        pick(record, index, "price"),
		Discount:     pick(record, index, "discount_percentage"),
		CategorySlug: pick(record, index, "category_slug"),
		CategoryName: pick(record, index, "category_name"),
		Brand:        pick(record, index, "brand"),
		Inventory:    pick(record, index, "inventory"),
		ImageURL:     pick(record, index, "image_url"),
		Features:     splitFeatures(pick(record, index, "features")),
	}
	if row.SKU == "" && len(row.Features) == 0 {
		return nil
	}
	return row
}

func splitFeatures(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ";") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
