package service

import (
	"sort"

	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/models"
)

// ProductService exposes catalog reads over the data access layer. It holds
// no state of its own.
type ProductService struct {
	store *dal.Store
}

// NewProductService creates the product service.
func NewProductService(store *dal.Store) *ProductService {
	return &ProductService{store: store}
}

// All returns every product, honoring sort and pagination options.
func (s *ProductService) All(opts dal.Options) []models.Product {
	return dal.Find(s.store, dal.Products, nil, opts)
}

// ByID returns one product or nil.
func (s *ProductService) ByID(id string) *models.Product {
	return dal.FindByID(s.store, dal.Products, id)
}

// Categories returns every category in name order.
func (s *ProductService) Categories() []models.Category {
	return dal.Find(s.store, dal.Categories, nil, dal.Options{SortBy: "name", SortOrder: "asc"})
}

// CategoryBySlug returns one category or nil.
func (s *ProductService) CategoryBySlug(slug string) *models.Category {
	return dal.FindOne(s.store, dal.Categories, dal.Filter{"slug": slug})
}

// ByCategory returns the products of a category addressed by slug. An
// unknown slug is retried as a raw category id so both URL keys work.
func (s *ProductService) ByCategory(slug string, opts dal.Options) []models.Product {
	categoryID := slug
	if category := dal.FindOne(s.store, dal.Categories, dal.Filter{"slug": slug}); category != nil {
		categoryID = category.ID
	}
	return dal.Find(s.store, dal.Products, dal.Filter{"category": categoryID}, opts)
}

// Featured returns best-seller products, highest rated first.
func (s *ProductService) Featured(limit int) []models.Product {
	return dal.Find(s.store, dal.Products, dal.Filter{"is_best_seller": true}, dal.Options{
		SortBy:    "rating",
		SortOrder: "desc",
		Limit:     positiveOr(limit, 8),
	})
}

// Newest returns recently added products.
func (s *ProductService) Newest(limit int) []models.Product {
	return dal.Find(s.store, dal.Products, dal.Filter{"is_new": true}, dal.Options{
		SortBy:    "created_at",
		SortOrder: "desc",
		Limit:     positiveOr(limit, 8),
	})
}

// TopRated returns the highest rated products.
func (s *ProductService) TopRated(limit int) []models.Product {
	return dal.Find(s.store, dal.Products, nil, dal.Options{
		SortBy:    "rating",
		SortOrder: "desc",
		Limit:     positiveOr(limit, 8),
	})
}

// Search matches the term against names and descriptions, name matches
// ranked first.
func (s *ProductService) Search(term string, limit int) []models.Product {
	return s.store.SearchProducts(term, limit)
}

// PriceRange returns products priced within [min, max], filtered, sorted and
// paginated in application code; the storage layer only does equality
// filters.
func (s *ProductService) PriceRange(min, max models.Money, opts dal.Options) []models.Product {
	products := s.All(dal.Options{})
	filtered := products[:0]
	for _, p := range products {
		if p.Price.Decimal.Cmp(min.Decimal) >= 0 && p.Price.Decimal.Cmp(max.Decimal) <= 0 {
			filtered = append(filtered, p)
		}
	}

	if opts.SortBy != "" {
		descending := opts.SortOrder == "desc"
		sort.SliceStable(filtered, func(i, j int) bool {
			less := productField(filtered[i], opts.SortBy) < productField(filtered[j], opts.SortBy)
			if descending {
				return !less
			}
			return less
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(filtered) {
			return []models.Product{}
		}
		filtered = filtered[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}

// Related returns other products from the same category.
func (s *ProductService) Related(productID string, limit int) []models.Product {
	product := s.ByID(productID)
	if product == nil {
		return nil
	}
	limit = positiveOr(limit, 4)
	candidates := dal.Find(s.store, dal.Products, dal.Filter{"category": product.Category}, dal.Options{})
	related := make([]models.Product, 0, limit)
	for _, candidate := range candidates {
		if candidate.ID == productID {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}
	return related
}

// ProductStats summarizes the catalog.
type ProductStats struct {
	TotalProducts   int          `json:"total_products"`
	CategoriesCount int          `json:"categories_count"`
	AveragePrice    models.Money `json:"average_price"`
	OutOfStockCount int          `json:"out_of_stock_count"`
}

// Stats computes catalog aggregates by pulling the full result set and
// reducing in application code.
func (s *ProductService) Stats() ProductStats {
	products := s.All(dal.Options{})
	categories := make(map[string]struct{})
	var total models.Money
	outOfStock := 0
	for _, p := range products {
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
		total = total.Add(p.Price)
		if p.StockQuantity == 0 {
			outOfStock++
		}
	}

	stats := ProductStats{
		TotalProducts:   len(products),
		CategoriesCount: len(categories),
		OutOfStockCount: outOfStock,
	}
	if len(products) > 0 {
		stats.AveragePrice = models.NewMoneyFromDecimal(
			total.Decimal.Div(models.NewMoneyFromInt(int64(len(products))).Decimal))
	}
	return stats
}

// productField projects a sortable numeric field for in-app sorting.
func productField(p models.Product, field string) float64 {
	switch field {
	case "price":
		return p.Price.Float()
	case "rating":
		return p.Rating
	case "review_count", "reviews":
		return float64(p.ReviewCount)
	case "stock_quantity":
		return float64(p.StockQuantity)
	default:
		return 0
	}
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
