// export.go implements GET /trips/{tripId}/itinerary.
// Returns the trip schedule as a flat table, one row per activity plus one
// empty row per free day. Supports ?format=csv (CSV) or ?format=json (default).
package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/planner/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "destination", "date", "activity_id", "title", "occurs_at",
}

// ItineraryRow is the JSON representation of a domain.ScheduleRow.
// Activity fields are omitted on days without activities.
type ItineraryRow struct {
	TripID      openapi_types.UUID  `json:"trip_id"`
	Destination string              `json:"destination"`
	Date        openapi_types.Date  `json:"date"`
	ActivityID  *openapi_types.UUID `json:"activity_id,omitempty"`
	Title       *string             `json:"title,omitempty"`
	OccursAt    *time.Time          `json:"occurs_at,omitempty"`
}

// GetItinerary handles GET /trips/{tripId}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.writeError(w, r, &requestError{message: "invalid query parameter", fields: map[string][]string{"format": {err.Error()}}}, "trip")
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			s.writeError(w, r, &requestError{message: "invalid query parameter", fields: map[string][]string{"format": {"must be csv or json"}}}, "trip")
			return
		}
	}

	rows, err := s.activities.Itinerary(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	if wantCSV {
		writeCSV(w, fmt.Sprintf("itinerary-%s.csv", tripID), rows)
		return
	}
	out := make([]ItineraryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToItineraryRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV with a header row.
func writeCSV(w http.ResponseWriter, filename string, rows []domain.ScheduleRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToItineraryRow maps a domain.ScheduleRow to its JSON shape.
// Empty activity fields become nil pointers (omitted in JSON).
func domainRowToItineraryRow(r domain.ScheduleRow) ItineraryRow {
	tripID, _ := uuid.Parse(r.TripID)

	row := ItineraryRow{
		TripID:      tripID,
		Destination: r.Destination,
		Date:        mustParseDate(r.Date),
		OccursAt:    r.OccursAt,
	}
	if r.ActivityID != "" {
		if id, err := uuid.Parse(r.ActivityID); err == nil {
			row.ActivityID = &id
		}
		title := r.Title
		row.Title = &title
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ScheduleRow as a flat string slice.
// A nil OccursAt is encoded as an empty string.
func domainRowToCSVRecord(r domain.ScheduleRow) []string {
	occursAt := ""
	if r.OccursAt != nil {
		occursAt = r.OccursAt.UTC().Format(time.RFC3339)
	}
	return []string{r.TripID, r.Destination, r.Date, r.ActivityID, r.Title, occursAt}
}

// mustParseDate parses a "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}
