package models

import "time"

const (
	SourceSimulation = "simulation"
	SourceAPI        = "api"
)

// Movement is one applied change to a product's stock.
type Movement struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"productId"`
	ProductName string    `json:"productName"`
	Action      Action    `json:"action"`
	Delta       int       `json:"delta"`
	StockAfter  int       `json:"stockAfter"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
}
