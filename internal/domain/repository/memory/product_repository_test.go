package memory

import (
	"context"
	"testing"

	"picklist/internal/common"
	"picklist/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *ProductRepository {
	t.Helper()
	repo := NewProductRepository()
	ctx := context.Background()
	for _, p := range []model.Product{
		{Name: "Zephyr Phone", Description: "A sleek smartphone", Price: "499.99", Stock: 3},
		{Name: "Atlas Charger", Description: "Charges any phone fast", Price: "19.99", Stock: 40},
		{Name: "Atlas Kettle", Description: "Boils water quickly", Price: "29.99", Stock: 12},
		{Name: "Nimbus Blender", Description: "Kitchen essential", Price: "89.50", Stock: 7},
	} {
		p := p
		require.NoError(t, repo.Create(ctx, &p))
	}
	return repo
}

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestListNoFilterReturnsAllSortedByName(t *testing.T) {
	repo := seedCatalog(t)

	products, err := repo.List(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas Charger", "Atlas Kettle", "Nimbus Blender", "Zephyr Phone"}, names(products))
}

func TestListFilterMatchesNameOrDescription(t *testing.T) {
	repo := seedCatalog(t)

	// "phone" hits Zephyr Phone by name and Atlas Charger by description,
	// case-insensitively.
	products, err := repo.List(context.Background(), "PHONE", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas Charger", "Zephyr Phone"}, names(products))
}

func TestListFilterNoMatches(t *testing.T) {
	repo := seedCatalog(t)

	products, err := repo.List(context.Background(), "submarine", "", "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListSortByPriceDesc(t *testing.T) {
	repo := seedCatalog(t)

	products, err := repo.List(context.Background(), "", model.SortByPrice, model.SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zephyr Phone", "Nimbus Blender", "Atlas Kettle", "Atlas Charger"}, names(products))
}

func TestListSortByStockAsc(t *testing.T) {
	repo := seedCatalog(t)

	products, err := repo.List(context.Background(), "", model.SortByStock, model.SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zephyr Phone", "Nimbus Blender", "Atlas Kettle", "Atlas Charger"}, names(products))
}

func TestListUnknownSortFieldFallsBackToName(t *testing.T) {
	repo := seedCatalog(t)

	products, err := repo.List(context.Background(), "", "pricee", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas Charger", "Atlas Kettle", "Nimbus Blender", "Zephyr Phone"}, names(products))
}

func TestListSortByPriceIsNumeric(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()
	// Lexicographic order of these strings ("100.00" < "20.00" < "9.99")
	// is the reverse of their numeric order.
	for _, p := range []model.Product{
		{Name: "Mid", Price: "20.00", Stock: 1},
		{Name: "Cheap", Price: "9.99", Stock: 1},
		{Name: "Dear", Price: "100.00", Stock: 1},
	} {
		p := p
		require.NoError(t, repo.Create(ctx, &p))
	}

	products, err := repo.List(ctx, "", model.SortByPrice, model.SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cheap", "Mid", "Dear"}, names(products))
}

func TestListEqualKeysTieBreakByID(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Product{Name: "Same Name", Price: "5.00", Stock: 1}))
	}

	products, err := repo.List(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.True(t, products[0].ID < products[1].ID && products[1].ID < products[2].ID)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewProductRepository()

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
