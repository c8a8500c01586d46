package repo

import (
	"sync"

	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Products keep insertion order and IDs are never reused after a delete.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// SeedProducts is the catalogue a fresh process starts with.
func SeedProducts() []models.Product {
	return []models.Product{
		{Name: "Laptop", Stock: 5, MaxThreshold: 20},
		{Name: "Phone", Stock: 10, MaxThreshold: 30},
		{Name: "Headphones", Stock: 15, MaxThreshold: 25},
	}
}

// NewSeededProductRepository creates a repository pre-populated with SeedProducts.
func NewSeededProductRepository() *InMemoryProductRepository {
	r := NewInMemoryProductRepository()
	for _, p := range SeedProducts() {
		p.ID = r.nextID
		r.nextID++
		r.products = append(r.products, p)
	}
	return r
}

// Create validates and appends a new product.
func (r *InMemoryProductRepository) Create(name string, stock, maxThreshold int) (models.Product, error) {
	product, err := models.NewProduct(name, stock, maxThreshold)
	if err != nil {
		return models.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves a copy of all products in insertion order.
func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Update applies the fields present in patch and returns the updated product
// with the resulting stock change. Nothing is written when validation fails.
func (r *InMemoryProductRepository) Update(id int, patch models.ProductPatch) (models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, 0, ErrProductNotFound
	}
	if err := patch.Validate(); err != nil {
		return models.Product{}, 0, err
	}
	before := r.products[i].Stock
	patch.Apply(&r.products[i])
	return r.products[i], r.products[i].Stock - before, nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

// PickRandom returns a uniformly random product, or false when the repository is empty.
func (r *InMemoryProductRepository) PickRandom(rnd Rand) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.products) == 0 {
		return models.Product{}, false
	}
	return r.products[rnd.IntN(len(r.products))], true
}

// ApplyMovement performs the bounded stock mutation for action against the
// product's current threshold and returns the product with the applied delta.
func (r *InMemoryProductRepository) ApplyMovement(id int, action models.Action) (models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, 0, ErrProductNotFound
	}
	delta := r.products[i].Apply(action)
	return r.products[i], delta, nil
}

// Clear removes every product. The ID counter keeps counting.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
