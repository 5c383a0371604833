package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"feriadobot/internal/platform/middleware"
)

type holiday struct {
	Fecha  string `json:"fecha"`
	Tipo   string `json:"tipo"`
	Nombre string `json:"nombre"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// fixedHolidays are the national holidays whose date never moves.
var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Año nuevo"},
	{time.March, 24, "Día Nacional de la Memoria por la Verdad y la Justicia"},
	{time.April, 2, "Día del Veterano y de los Caídos en la Guerra de Malvinas"},
	{time.May, 1, "Día del Trabajador"},
	{time.May, 25, "Día de la Revolución de Mayo"},
	{time.June, 20, "Paso a la Inmortalidad del General Don Manuel Belgrano"},
	{time.July, 9, "Día de la Independencia"},
	{time.December, 8, "Día de la Inmaculada Concepción de María"},
	{time.December, 25, "Navidad"},
}

func holidaysFor(year int) []holiday {
	out := make([]holiday, 0, len(fixedHolidays))
	for _, h := range fixedHolidays {
		out = append(out, holiday{
			Fecha:  time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Tipo:   "inamovible",
			Nombre: h.name,
		})
	}
	return out
}

func newRouter(logger *slog.Logger, latency time.Duration, failYears map[int]bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(latency))

	r.Get("/health", handleHealth)
	r.Get("/v1/feriados/{year}", func(w http.ResponseWriter, req *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(req, "year"))
		if err != nil || year < 1900 || year > 2999 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "year must be a four digit number", Code: http.StatusBadRequest})
			return
		}
		if failYears[year] {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "unavailable", Message: fmt.Sprintf("holidays for %d are unavailable", year), Code: http.StatusServiceUnavailable})
			return
		}
		writeJSON(w, http.StatusOK, holidaysFor(year))
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mock-feriados",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}
