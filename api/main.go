package main

import (
	"os"

	"github.com/rogerio-castellano/inventory-simulator/internal/cli"
)

// @title Inventory Simulator API
// @version 1.0
// @description In-memory inventory with a background stock simulation.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
