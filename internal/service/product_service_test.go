package service

import (
	"testing"

	"github.com/knotara/storefront/internal/dal"
	"github.com/knotara/storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBasics(t *testing.T) {
	products := NewProductService(newTestStore(t))

	all := products.All(dal.Options{})
	assert.Len(t, all, 9)

	product := products.ByID("1")
	require.NotNil(t, product)
	assert.Equal(t, "Classic Leather Keychain", product.Name)
	assert.Equal(t, []string{"Brown", "Black", "Tan"}, product.Colors)

	assert.Nil(t, products.ByID("ghost"))

	categories := products.Categories()
	assert.Len(t, categories, 4)

	category := products.CategoryBySlug("handbags")
	require.NotNil(t, category)
	assert.Equal(t, "4", category.ID)
}

func TestByCategoryAcceptsSlugOrID(t *testing.T) {
	products := NewProductService(newTestStore(t))

	bySlug := products.ByCategory("handbags", dal.Options{})
	assert.Len(t, bySlug, 4)

	byID := products.ByCategory("4", dal.Options{})
	assert.Len(t, byID, 4)

	assert.Empty(t, products.ByCategory("no-such-category", dal.Options{}))
}

func TestFeaturedAndNewest(t *testing.T) {
	products := NewProductService(newTestStore(t))

	featured := products.Featured(0)
	require.Len(t, featured, 2)
	for _, p := range featured {
		assert.True(t, p.IsBestSeller)
	}
	assert.GreaterOrEqual(t, featured[0].Rating, featured[1].Rating)

	newest := products.Newest(0)
	require.Len(t, newest, 4)
	for _, p := range newest {
		assert.True(t, p.IsNew)
	}
}

func TestTopRated(t *testing.T) {
	products := NewProductService(newTestStore(t))

	top := products.TopRated(3)
	require.Len(t, top, 3)
	assert.Equal(t, 4.9, top[0].Rating)
}

func TestPriceRange(t *testing.T) {
	products := NewProductService(newTestStore(t))

	cheap := products.PriceRange(models.NewMoneyFromFloat(0), models.NewMoneyFromFloat(400), dal.Options{
		SortBy: "price", SortOrder: "asc",
	})
	require.NotEmpty(t, cheap)
	for _, p := range cheap {
		assert.LessOrEqual(t, p.Price.Float(), 400.0)
	}
	for i := 1; i < len(cheap); i++ {
		assert.LessOrEqual(t, cheap[i-1].Price.Float(), cheap[i].Price.Float())
	}

	none := products.PriceRange(models.NewMoneyFromFloat(5000), models.NewMoneyFromFloat(9000), dal.Options{})
	assert.Empty(t, none)
}

func TestPriceRangePagination(t *testing.T) {
	products := NewProductService(newTestStore(t))

	page := products.PriceRange(models.NewMoneyFromFloat(0), models.NewMoneyFromFloat(10000), dal.Options{
		SortBy: "price", SortOrder: "desc", Limit: 2, Offset: 1,
	})
	require.Len(t, page, 2)

	full := products.PriceRange(models.NewMoneyFromFloat(0), models.NewMoneyFromFloat(10000), dal.Options{
		SortBy: "price", SortOrder: "desc",
	})
	assert.Equal(t, full[1].ID, page[0].ID)
}

func TestRelatedProducts(t *testing.T) {
	products := NewProductService(newTestStore(t))

	related := products.Related("6", 0)
	require.NotEmpty(t, related)
	for _, p := range related {
		assert.Equal(t, "4", p.Category)
		assert.NotEqual(t, "6", p.ID)
	}

	assert.Nil(t, products.Related("ghost", 0))
}

func TestSearchProducts(t *testing.T) {
	products := NewProductService(newTestStore(t))

	results := products.Search("macrame", 0)
	assert.NotEmpty(t, results)

	assert.Empty(t, products.Search("zzzz-no-match", 0))
}

func TestProductStats(t *testing.T) {
	products := NewProductService(newTestStore(t))

	stats := products.Stats()
	assert.Equal(t, 9, stats.TotalProducts)
	assert.Equal(t, 4, stats.CategoriesCount)
	assert.Equal(t, 0, stats.OutOfStockCount)
	assert.Greater(t, stats.AveragePrice.Float(), 0.0)
}
