package repo

import (
	"errors"

	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// ErrProductNotFound is returned when a product is not found in the repository.
var ErrProductNotFound = errors.New("product not found")

// Rand is the randomness a repository needs to pick a product.
type Rand interface {
	IntN(n int) int
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(name string, stock, maxThreshold int) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id int) (models.Product, error)
	Update(id int, patch models.ProductPatch) (models.Product, int, error)
	Delete(id int) error
	PickRandom(r Rand) (models.Product, bool)
	ApplyMovement(id int, action models.Action) (models.Product, int, error)
}
