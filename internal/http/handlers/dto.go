package handlers

import "time"

// ProductRequest is the body of create and update calls. Absent fields stay nil.
type ProductRequest struct {
	Name         *string `json:"name,omitempty"`
	Stock        *int    `json:"stock,omitempty"`
	MaxThreshold *int    `json:"maxThreshold,omitempty"`
}

type ProductResponse struct {
	Id           int    `json:"id"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	MaxThreshold int    `json:"maxThreshold"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// SimStartResponse carries nextRunAt as Unix milliseconds, or null when no tick is pending.
type SimStartResponse struct {
	Running   bool   `json:"running"`
	NextRunAt *int64 `json:"nextRunAt"`
}

type SimStopResponse struct {
	Running bool `json:"running"`
}

type SimStatusResponse struct {
	Running   bool              `json:"running"`
	NextRunAt *int64            `json:"nextRunAt"`
	Products  []ProductResponse `json:"products"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type MovementResponse struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"productId"`
	Action     string    `json:"action"`
	Delta      int       `json:"delta"`
	StockAfter int       `json:"stockAfter"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta"`
}
