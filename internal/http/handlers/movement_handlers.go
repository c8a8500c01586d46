package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/repo"
)

// GetMovementsHandler godoc
// @Summary Get product movement logs
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339)"
// @Param until query string false "Filter movements until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id}/movements [get]
func (s *Server) GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.knownProduct(w, r)
	if !ok {
		return
	}

	mf, err := movementFilter(r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movements, total, err := s.movementRepo.GetByProductID(id, mf)
	if err != nil {
		writeDomainError(w, err, "retrieve movements")
		return
	}

	response := MovementsSearchResult{
		Data: make([]MovementResponse, len(movements)),
		Meta: Meta{TotalCount: total},
	}
	for i, m := range movements {
		response.Data[i] = toMovementResponse(m)
	}
	_ = writeJSON(w, http.StatusOK, response)
}

// ExportMovementsHandler godoc
// @Summary Export product movement logs
// @Tags movements
// @Produce text/csv, application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id}/movements/export [get]
func (s *Server) ExportMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.knownProduct(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "format must be 'csv' or 'json'")
		return
	}

	mf, err := movementFilter(r, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movements, _, err := s.movementRepo.GetByProductID(id, mf)
	if err != nil {
		writeDomainError(w, err, "retrieve movements")
		return
	}

	out := make([]MovementResponse, len(movements))
	for i, m := range movements {
		out[i] = toMovementResponse(m)
	}

	switch format {
	case "json":
		_ = writeJSON(w, http.StatusOK, out, http.Header{
			"Content-Disposition": {`attachment; filename="movements.json"`},
		})

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "action", "delta", "stock_after", "source", "created_at"})
		for _, m := range out {
			_ = csvWriter.Write([]string{
				strconv.Itoa(m.ID),
				strconv.Itoa(m.ProductID),
				m.Action,
				strconv.Itoa(m.Delta),
				strconv.Itoa(m.StockAfter),
				m.Source,
				m.CreatedAt.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			logger.Logger.Error().Err(err).Int("product_id", id).Msg("csv export failed")
		}
	}
}

// knownProduct resolves {id} and writes a 404 when no such product exists.
func (s *Server) knownProduct(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := productID(r)
	if err == nil {
		_, err = s.productRepo.GetByID(id)
	}
	if err != nil {
		writeDomainError(w, err, "retrieve product")
		return 0, false
	}
	return id, true
}

func movementFilter(r *http.Request, paged bool) (repo.MovementFilter, error) {
	var mf repo.MovementFilter
	q := r.URL.Query()

	var err error
	if mf.Since, err = parseTimestamp(q.Get("since")); err != nil {
		return mf, errors.New("invalid since date format")
	}
	if mf.Until, err = parseTimestamp(q.Get("until")); err != nil {
		return mf, errors.New("invalid until date format")
	}
	if !paged {
		return mf, nil
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return mf, errors.New("invalid limit format")
		}
		if n <= 0 {
			return mf, errors.New("limit must be greater than zero")
		}
		mf.Limit = &n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return mf, errors.New("invalid offset format")
		}
		if n < 0 {
			return mf, errors.New("offset must be zero or positive")
		}
		mf.Offset = &n
	}
	return mf, nil
}

// parseTimestamp accepts RFC3339. Query decoding turns a '+' offset into a
// space (2025-07-03T17:44:03 02:00), which is restored before parsing.
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
