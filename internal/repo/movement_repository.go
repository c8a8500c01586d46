package repo

import (
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// MovementRepository is the process-lifetime journal of applied stock movements.
type MovementRepository interface {
	Log(m models.Movement) error
	GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error)
}
