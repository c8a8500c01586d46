package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		writeDomainError(w, err, "retrieve products")
		return
	}
	_ = writeJSON(w, http.StatusOK, toProductResponses(products))
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. Stock defaults to 0 and maxThreshold to 10.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	stock := models.DefaultStock
	if req.Stock != nil {
		stock = *req.Stock
	}
	maxThreshold := models.DefaultMaxThreshold
	if req.MaxThreshold != nil {
		maxThreshold = *req.MaxThreshold
	}

	created, err := s.productRepo.Create(name, stock, maxThreshold)
	if err != nil {
		writeDomainError(w, err, "create product")
		return
	}

	logger.Logger.Info().
		Int("product_id", created.ID).
		Str("name", created.Name).
		Msg("product created")

	_ = writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductByIDHandler godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeDomainError(w, err, "retrieve product")
		return
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		writeDomainError(w, err, "retrieve product")
		return
	}
	_ = writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Applies only the supplied fields. Stock may be set above maxThreshold.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeDomainError(w, err, "update product")
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	patch := models.ProductPatch{Name: req.Name, Stock: req.Stock, MaxThreshold: req.MaxThreshold}
	updated, delta, err := s.productRepo.Update(id, patch)
	if err != nil {
		writeDomainError(w, err, "update product")
		return
	}

	if delta != 0 && s.sink != nil {
		s.sink.Dispatch(models.Movement{
			ProductID:   updated.ID,
			ProductName: updated.Name,
			Action:      models.ActionManual,
			Delta:       delta,
			StockAfter:  updated.Stock,
			Source:      models.SourceAPI,
		})
	}

	_ = writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeDomainError(w, err, "delete product")
		return
	}

	if err := s.productRepo.Delete(id); err != nil {
		writeDomainError(w, err, "delete product")
		return
	}

	logger.Logger.Info().Int("product_id", id).Msg("product deleted")
	w.WriteHeader(http.StatusNoContent)
}
