package repo

type InMemoryMetricsRepository struct {
	productRepo  ProductRepository
	movementRepo MovementRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	for _, product := range products {
		m.TotalStock += product.Stock
		if product.Stock == 0 {
			m.OutOfStockCount++
		}
		if product.Stock >= product.MaxThreshold {
			m.AtCapacityCount++
		}

		_, count, err := i.movementRepo.GetByProductID(product.ID, MovementFilter{})
		if err != nil {
			return m, err
		}
		m.TotalMovements += count
		if count > m.MostMovedProduct.MovementCount {
			m.MostMovedProduct.Name = product.Name
			m.MostMovedProduct.MovementCount = count
		}
	}

	return m, nil
}

func NewInMemoryMetricsRepository(productRepo ProductRepository, movementRepo MovementRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}
