package handlers

import (
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
	repo "github.com/rogerio-castellano/inventory-simulator/internal/repo"
	"github.com/rogerio-castellano/inventory-simulator/internal/sim"
)

// Engine is the simulation control surface the handlers drive.
type Engine interface {
	Start() sim.State
	Stop() sim.State
	Status() (sim.Snapshot, error)
}

// MovementSink receives manual stock changes made through the API.
type MovementSink interface {
	Dispatch(m models.Movement) models.Movement
}

// Server holds the dependencies of every handler.
type Server struct {
	productRepo  repo.ProductRepository
	movementRepo repo.MovementRepository
	metricsRepo  repo.MetricsRepository
	engine       Engine
	sink         MovementSink
}

type Deps struct {
	Products  repo.ProductRepository
	Movements repo.MovementRepository
	Metrics   repo.MetricsRepository
	Engine    Engine
	Sink      MovementSink
}

func NewServer(d Deps) *Server {
	return &Server{
		productRepo:  d.Products,
		movementRepo: d.Movements,
		metricsRepo:  d.Metrics,
		engine:       d.Engine,
		sink:         d.Sink,
	}
}
