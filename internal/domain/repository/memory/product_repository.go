package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"picklist/internal/common"
	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*model.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]*model.Product)}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
	} else if product.ID > r.nextID {
		r.nextID = product.ID
	}
	product.CreatedAt = time.Now()

	copied := *product
	r.products[copied.ID] = &copied
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *ProductRepository) List(_ context.Context, search, sortBy, sortOrder string) ([]model.Product, error) {
	r.mu.RLock()
	needle := strings.ToLower(search)
	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		products = append(products, *p)
	}
	r.mu.RUnlock()

	desc := strings.EqualFold(sortOrder, model.SortOrderDesc)
	sort.Slice(products, func(i, j int) bool {
		c := compareProducts(&products[i], &products[j], sortBy)
		if c == 0 {
			// Stable tie-break so pagination is reproducible.
			return products[i].ID < products[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return products, nil
}

// compareProducts orders by the requested field; unrecognized fields fall
// back to name, matching the Postgres repository.
func compareProducts(a, b *model.Product, sortBy string) int {
	switch sortBy {
	case model.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case model.SortByPrice:
		// Prices are decimal strings; parse for ordering so "99.50"
		// sorts below "100.00".
		pa, _ := strconv.ParseFloat(a.Price, 64)
		pb, _ := strconv.ParseFloat(b.Price, 64)
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return 0
	case model.SortByStock:
		return a.Stock - b.Stock
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func (r *ProductRepository) exists(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok
}
