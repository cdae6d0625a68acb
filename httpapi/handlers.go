package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/hobby"
	"github.com/etnz/hobby/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// maxDocumentSize is the default bound of an imported workbook.
const maxDocumentSize = 32 << 20

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "hb",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeStoreError maps a store error to its status code.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var verr *hobby.ValidationError
	var derr *hobby.DecodeError
	switch {
	case errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &derr):
		s.writeError(w, http.StatusUnprocessableEntity, derr.Error())
	default:
		s.log.Error().Err(err).Msg("Request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads a JSON request body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// itemID parses the {id} route parameter.
func (s *Server) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// handleListItems lists one stage, filtered by the q and grade parameters.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stage := hobby.Held
	if list := q.Get("list"); list != "" {
		var err error
		if stage, err = hobby.ParseStage(list); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	filter := hobby.Filter{Query: q.Get("q"), Grade: hobby.Grade(q.Get("grade"))}

	switch stage {
	case hobby.Held:
		s.writeJSON(w, http.StatusOK, filter.Items(s.store.Held()))
	case hobby.Listed:
		s.writeJSON(w, http.StatusOK, filter.Items(s.store.Listed()))
	default:
		s.writeJSON(w, http.StatusOK, filter.SoldItems(s.store.Sold()))
	}
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	loc, found := s.store.Find(id)
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("item %d not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var n hobby.NewItem
	if !s.decode(w, r, &n) {
		return
	}
	it, err := s.store.Add(n)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, it)
}

// writeLocated answers a mutation of item id: the item as it is now, or no
// content when the mutation did not apply.
func (s *Server) writeLocated(w http.ResponseWriter, id int64, changed bool) {
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	loc, _ := s.store.Find(id)
	s.writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var p hobby.ItemPatch
	if !s.decode(w, r, &p) {
		return
	}
	changed, err := s.store.Update(id, p)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeLocated(w, id, changed)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	s.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveToListed(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	s.writeLocated(w, id, s.store.MoveToListed(id))
}

func (s *Server) handleMoveToHeld(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	s.writeLocated(w, id, s.store.MoveToHeld(id))
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var d hobby.SaleDetails
	if !s.decode(w, r, &d) {
		return
	}
	_, sold, err := s.store.Sell(id, d)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeLocated(w, id, sold)
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	_, reverted := s.store.Revert(id)
	s.writeLocated(w, id, reverted)
}

func (s *Server) writeFund(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, hobby.FundState{
		Balance: s.store.Summary().Balance,
		History: s.store.History(),
	})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	s.writeFund(w)
}

type adjustRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Amount == nil {
		s.writeStoreError(w, &hobby.ValidationError{Field: "amount", Reason: "is required"})
		return
	}
	if err := s.store.Adjust(*req.Amount, req.Reason); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeFund(w)
}

// handleSummary returns the summary as JSON, or as markdown with format=md.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.store.Summary()
	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, renderer.Summary(sum, s.currency))
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

// handleExport downloads the whole store as a workbook named after the name
// parameter.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	filename, err := s.store.Export(&buf, r.URL.Query().Get("name"), time.Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("Failed to write export")
	}
}

// handleImport replaces the whole store with the workbook in the request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "import" + hobby.WorkbookExt
	}
	base, err := s.store.Import(http.MaxBytesReader(w, r.Body, s.maxImportSize), filename)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("workbook exceeds %d bytes", tooLarge.Limit))
		return
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"base":    base,
		"summary": s.store.Summary(),
	})
}
