package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/jszwec/csvutil"
	"github.com/rs/zerolog/log"

	"github.com/diagmatrix/go-travel/internal/api/dto"
	"github.com/diagmatrix/go-travel/internal/ports"
)

// Calendar serves a stored trip's day-by-day distance calendar as a CSV
// download. Calendars exist only for direct trips, so anything planned
// with stops gets a conflict.
func (h *TripHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	rec, err := h.Repo.GetTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ports.ErrTripNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return
		}
		log.Error().Err(err).Msg("get trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if len(rec.Legs) > 1 {
		writeError(w, r, http.StatusConflict, "distance calendar is not available for trips with stops")
		return
	}
	if len(rec.Calendar) == 0 {
		writeError(w, r, http.StatusNotFound, "trip has no distance calendar")
		return
	}

	days := make([]string, 0, len(rec.Calendar))
	for day := range rec.Calendar {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]dto.CalendarRow, 0, len(days))
	for _, day := range days {
		rows = append(rows, dto.CalendarRow{Date: day, Distance: rec.Calendar[day]})
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		log.Error().Err(err).Msg("marshal calendar csv failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trip_"+tripID+"_calendar.csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("write csv response failed")
	}
}
