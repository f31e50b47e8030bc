package api

import (
	"encoding/json"
	"net/http"
)

type createRequestRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	request, err := s.requests.Create(r.Context(), body.Description, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestResponse{
		ID:          request.ID,
		Description: request.Description,
		Created:     request.Created,
		Items:       []itemResponse{},
	})
}

func (s *Server) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := s.requests.ListOwn(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponses(details))
}

func (s *Server) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	details, err := s.requests.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponses(details))
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	details, err := s.requests.Get(r.Context(), requestID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponse(*details))
}
