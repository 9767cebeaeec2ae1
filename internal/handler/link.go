package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateLinkRequest is the body of POST /trips/{tripId}/links.
type CreateLinkRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// Link is the JSON representation of a link.
type Link struct {
	ID    openapi_types.UUID `json:"id"`
	Title string             `json:"title"`
	URL   string             `json:"url"`
}

// LinksResponse lists a trip's links.
type LinksResponse struct {
	Links []Link `json:"links"`
}

// CreateLinkResponse carries the new link's ID.
type CreateLinkResponse struct {
	LinkID openapi_types.UUID `json:"linkId"`
}

// CreateLink handles POST /trips/{tripId}/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	var body CreateLinkRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	l, err := s.links.Create(r.Context(), tripID, body.Title, body.URL)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, CreateLinkResponse{LinkID: l.ID})
}

// ListLinks handles GET /trips/{tripId}/links.
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	links, err := s.links.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	out := make([]Link, len(links))
	for i, l := range links {
		out[i] = Link{ID: l.ID, Title: l.Title, URL: l.URL}
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: out})
}
