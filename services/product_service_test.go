package services_test

import (
	"context"
	"testing"

	"shop-backend/models"
	"shop-backend/repository"
	"shop-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memProductRepo is an in-memory ProductRepository for service tests.
type memProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

func newMemProductRepo(products ...models.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[uint]*models.Product), nextID: 1}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *memProductRepo) FindAll(context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) FindByStoreID(_ context.Context, storeID uint) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = r.nextID
	r.nextID++
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *models.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) DecrementStock(_ context.Context, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func TestGetProduct_DiscountPrice(t *testing.T) {
	discount := 20
	repo := newMemProductRepo(models.Product{ID: 1, Name: "Coffee", Price: 100, Stock: 5, Discount: &discount})
	svc := services.NewProductService(repo, nil, nil)

	got, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, got.DiscountPrice)
	assert.Equal(t, 80.0, *got.DiscountPrice)
}

func TestGetProduct_NoDiscount(t *testing.T) {
	repo := newMemProductRepo(models.Product{ID: 1, Name: "Coffee", Price: 100, Stock: 5})
	svc := services.NewProductService(repo, nil, nil)

	got, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got.DiscountPrice)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := services.NewProductService(newMemProductRepo(), nil, nil)

	_, err := svc.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListProducts_AppliesDiscounts(t *testing.T) {
	discount := 50
	repo := newMemProductRepo(
		models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5, Discount: &discount},
		models.Product{ID: 2, Name: "Tea", Price: 5, Stock: 5},
	)
	svc := services.NewProductService(repo, nil, nil)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	for _, p := range products {
		if p.ID == 1 {
			require.NotNil(t, p.DiscountPrice)
			assert.Equal(t, 5.0, *p.DiscountPrice)
		} else {
			assert.Nil(t, p.DiscountPrice)
		}
	}
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	repo := newMemProductRepo(models.Product{ID: 1, Name: "Coffee", Description: "dark roast", Price: 10, Stock: 5})
	svc := services.NewProductService(repo, nil, nil)

	newPrice := 12.5
	got, err := svc.UpdateProduct(context.Background(), 1, &services.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 12.5, got.Price)
	assert.Equal(t, "Coffee", got.Name, "unset fields stay untouched")
	assert.Equal(t, "dark roast", got.Description)
	assert.Equal(t, 5, got.Stock)
}

func TestDeleteProduct(t *testing.T) {
	repo := newMemProductRepo(models.Product{ID: 1, Name: "Coffee", Price: 10, Stock: 5})
	svc := services.NewProductService(repo, nil, nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), 1))
	_, err := svc.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), 1), repository.ErrNotFound)
}
