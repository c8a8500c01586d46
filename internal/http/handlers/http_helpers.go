package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
	"github.com/rogerio-castellano/inventory-simulator/internal/repo"
	"github.com/rogerio-castellano/inventory-simulator/internal/sim"
)

// readJSON tries to read the body of a request and converts it into JSON.
// An empty body leaves data untouched.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, ErrorResponse{Error: message}); err != nil {
		logger.Logger.Error().Err(err).Msg("failed to write error response")
	}
}

// writeDomainError maps store errors onto 400, 404 or 500.
func writeDomainError(w http.ResponseWriter, err error, action string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, repo.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Logger.Error().Err(err).Msg("could not " + action)
		writeError(w, http.StatusInternalServerError, "could not "+action)
	}
}

// productID reads the {id} path parameter. A malformed id cannot name any
// product, so it is reported as not found.
func productID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, repo.ErrProductNotFound
	}
	return id, nil
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:           p.ID,
		Name:         p.Name,
		Stock:        p.Stock,
		MaxThreshold: p.MaxThreshold,
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toMovementResponse(m models.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Action:     string(m.Action),
		Delta:      m.Delta,
		StockAfter: m.StockAfter,
		Source:     m.Source,
		CreatedAt:  m.CreatedAt,
	}
}

func unixMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func simStart(st sim.State) SimStartResponse {
	return SimStartResponse{Running: st.Running, NextRunAt: unixMillis(st.NextRunAt)}
}
