package repo

type MostMovedProduct struct {
	Name          string `json:"name"`
	MovementCount int    `json:"movement_count"`
}

type Metrics struct {
	TotalProducts    int              `json:"total_products"`
	TotalStock       int              `json:"total_stock"`
	TotalMovements   int              `json:"total_movements"`
	OutOfStockCount  int              `json:"out_of_stock_count"`
	AtCapacityCount  int              `json:"at_capacity_count"`
	MostMovedProduct MostMovedProduct `json:"most_moved_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
