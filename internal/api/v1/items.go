package v1

import (
	"net/http"
	"strconv"
	"strings"
)

// handleSearchItems finds items by name prefix.
// Query: ?q=<prefix>&limit=<n> (limit capped at 50).
func (r *Router) handleSearchItems(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := 0
	if limitStr := req.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	items, err := r.services.Price.Search(req.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// handleGetItem retrieves an item with its latest price snapshot.
func (r *Router) handleGetItem(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(req.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	item, err := r.services.Price.GetItem(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// handleLatestPrices returns the newest snapshot per requested item.
// Query: ?ids=2,561,1436 (at most 200 IDs per request).
func (r *Router) handleLatestPrices(w http.ResponseWriter, req *http.Request) {
	idsParam := req.URL.Query().Get("ids")
	if idsParam == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'ids' is required")
		return
	}

	parts := strings.Split(idsParam, ",")
	if len(parts) > 200 {
		writeError(w, http.StatusBadRequest, "at most 200 item IDs per request")
		return
	}

	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid item ID: "+part)
			return
		}
		ids = append(ids, id)
	}

	prices, err := r.services.Price.LatestByIDs(req.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load prices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prices": prices})
}
