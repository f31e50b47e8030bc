package api

import (
	"encoding/json"
	"net/http"

	"sharehub/internal/models"
)

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createCommentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}

	item := models.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	}
	created, err := s.items.Create(r.Context(), item, ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newItemResponse(*created))
}

func (s *Server) handleListOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	details, err := s.items.ListOwnerItems(r.Context(), ownerID, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]itemDetailsResponse, len(details))
	for i, d := range details {
		out[i] = newItemDetailsResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.SearchByText(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponses(items))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	details, err := s.items.GetDetails(r.Context(), itemID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemDetailsResponse(*details))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	update := models.ItemUpdate{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}
	item, err := s.items.Update(r.Context(), itemID, update, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(*item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.items.Delete(r.Context(), itemID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var body createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.items.CreateComment(r.Context(), itemID, userID, body.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(*comment))
}

// paginationParams parses the optional from/size pair; on a malformed
// value it writes a 400 and reports !ok.
func paginationParams(w http.ResponseWriter, r *http.Request) (from, size *int, ok bool) {
	from, err := queryInt(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from parameter")
		return nil, nil, false
	}
	size, err = queryInt(r, "size")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size parameter")
		return nil, nil, false
	}
	return from, size, true
}
