package service

import (
	"context"
	"fmt"

	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"
)

type ProductService struct {
	productRepo   repository.ProductRepository
	selectionRepo repository.SelectionRepository
}

func NewProductService(productRepo repository.ProductRepository, selectionRepo repository.SelectionRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		selectionRepo: selectionRepo,
	}
}

// ProductView is a product decorated with selection state for the
// requesting user.
type ProductView struct {
	model.Product
	IsSelected          bool     `json:"is_selected"`
	SelectedByUsernames []string `json:"selected_by_usernames"`
}

func (s *ProductService) List(ctx context.Context, userID, search, sortBy, sortOrder string) ([]ProductView, error) {
	products, err := s.productRepo.List(ctx, search, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view, err := s.decorate(ctx, userID, p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ToggleSelection flips the user's selection of the product and returns the
// product's post-toggle representation.
func (s *ProductService) ToggleSelection(ctx context.Context, userID string, productID int64) (*ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, err)
	}

	if _, err := s.selectionRepo.Toggle(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to toggle selection: %w", err)
	}

	view, err := s.decorate(ctx, userID, *product)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *ProductService) decorate(ctx context.Context, userID string, product model.Product) (ProductView, error) {
	selectors, err := s.selectionRepo.SelectorsOf(ctx, product.ID)
	if err != nil {
		return ProductView{}, fmt.Errorf("failed to load selectors of product %d: %w", product.ID, err)
	}

	view := ProductView{
		Product:             product,
		SelectedByUsernames: make([]string, 0, len(selectors)),
	}
	for _, u := range selectors {
		view.SelectedByUsernames = append(view.SelectedByUsernames, u.Username)
		if u.ID == userID {
			view.IsSelected = true
		}
	}
	return view, nil
}
