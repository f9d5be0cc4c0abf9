package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/config"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/feasts"
	"github.com/zapponejosh/coptic-calendar-api/internal/ical"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

// Clock supplies the current instant. Tests pin it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	conv   calendar.Converter
	feasts *feasts.Store
	health HealthChecker
	cfg    *config.Config
	clock  Clock
	logger *slog.Logger
}

// NewHandlers wires the handlers. health may be nil.
func NewHandlers(conv calendar.Converter, store *feasts.Store, health HealthChecker, cfg *config.Config, log *slog.Logger) *Handlers {
	return &Handlers{
		conv:   conv,
		feasts: store,
		health: health,
		cfg:    cfg,
		clock:  systemClock{},
		logger: log,
	}
}

// WithClock replaces the clock used for "today".
func (h *Handlers) WithClock(c Clock) *Handlers {
	h.clock = c
	return h
}

// DayResponse describes one civil day in the Coptic calendar.
type DayResponse struct {
	CivilDate string              `json:"civil_date"`
	Weekday   string              `json:"weekday"`
	Coptic    calendar.CopticDate `json:"coptic"`
	Display   string              `json:"display"`
	Progress  int                 `json:"month_progress"`
	Feasts    []string            `json:"feasts"`
}

// NewYearResponse describes the Coptic New Year beginning in a civil year.
type NewYearResponse struct {
	CivilYear  int    `json:"civil_year"`
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	CopticYear int    `json:"coptic_year"`
	Shifted    bool   `json:"shifted"` // true when it falls on September 12
}

// FeastRequest is the body of POST /api/v1/admin/feasts. Month may be a
// number or a month name.
type FeastRequest struct {
	Month json.RawMessage `json:"month"`
	Day   int             `json:"day"`
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			logger.Warn(r.Context(), "health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
	}
	WriteSuccess(w, map[string]any{
		"status": "healthy",
		"feasts": h.feasts.Table().Len(),
	})
}

// GetToday handles GET /api/v1/coptic/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	today := calendar.FromTime(h.clock.Now().In(h.cfg.Location()))
	h.writeDay(w, r, today)
}

// GetDate handles GET /api/v1/coptic/date/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	d, err := calendar.ParseCivilDate(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date %q. Use YYYY-MM-DD", raw))
		return
	}
	h.writeDay(w, r, d)
}

// GetRange handles GET /api/v1/coptic/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := calendar.ParseCivilDate(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date %q. Use YYYY-MM-DD", startStr))
		return
	}
	end, err := calendar.ParseCivilDate(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date %q. Use YYYY-MM-DD", endStr))
		return
	}
	if end.Before(start) {
		WriteBadRequest(w, "Start date must be on or before end date")
		return
	}
	if span := end.DaysSince(start) + 1; span > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	days, err := h.conv.ConvertRange(start, end)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	table := h.feasts.Table()
	out := make([]DayResponse, len(days))
	for i, cd := range days {
		out[i] = dayResponse(start.AddDays(i), cd, table)
	}

	WriteSuccess(w, map[string]any{
		"start": start.String(),
		"end":   end.String(),
		"count": len(out),
		"days":  out,
	})
}

// GetNewYear handles GET /api/v1/coptic/new-year/{year}
func (h *Handlers) GetNewYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "Year must be an integer")
		return
	}
	if year < calendar.MinCivilYear || year > calendar.MaxCivilYear {
		WriteBadRequest(w, fmt.Sprintf("Year must be between %d and %d", calendar.MinCivilYear, calendar.MaxCivilYear))
		return
	}

	ny := h.conv.NewYears
	if ny == nil {
		ny = calendar.RuleNewYears{}
	}
	d := ny.NewYear(year)
	WriteSuccess(w, NewYearResponse{
		CivilYear:  year,
		Date:       d.String(),
		Weekday:    d.Time().Weekday().String(),
		CopticYear: year - calendar.EpochOffsetAfterNewYear,
		Shifted:    d.Day == 12,
	})
}

// GetToCivil handles GET /api/v1/coptic/to-civil/{year}/{month}/{day}
func (h *Handlers) GetToCivil(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "Year must be an integer")
		return
	}
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		WriteBadRequest(w, "Day must be an integer")
		return
	}

	civil, err := h.conv.ToCivil(year, month, day)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidDate) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "coptic to civil failed", err)
		WriteInternalError(w, "Failed to convert date")
		return
	}
	h.writeDay(w, r, civil)
}

// ListFeasts handles GET /api/v1/feasts?month=
func (h *Handlers) ListFeasts(w http.ResponseWriter, r *http.Request) {
	table := h.feasts.Table()

	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := calendar.ParseMonth(raw)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		WriteSuccess(w, map[string]any{
			"month":  month.Name(),
			"feasts": table.InMonth(month),
		})
		return
	}

	WriteSuccess(w, map[string]any{
		"count":  table.Len(),
		"feasts": table.Entries(),
	})
}

// GetFeastCalendar handles GET /api/v1/feasts/calendar.ics?year=
// year is a Coptic year and defaults to the current one.
func (h *Handlers) GetFeastCalendar(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now().In(h.cfg.Location())

	year := h.conv.CopticYear(calendar.FromTime(now))
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			WriteBadRequest(w, "Year must be an integer")
			return
		}
		year = y
	}

	data, err := ical.Export(h.conv, h.feasts.Table(), year, now)
	if err != nil {
		logger.Error(r.Context(), "export feast calendar", err, slog.Int("coptic_year", year))
		WriteInternalError(w, "Failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="coptic-feasts-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListFeastRecords handles GET /api/v1/admin/feasts
func (h *Handlers) ListFeastRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.feasts.Records(r.Context())
	if err != nil {
		logger.Error(r.Context(), "list feast records", err)
		WriteInternalError(w, "Failed to list feasts")
		return
	}
	WriteSuccess(w, records)
}

// CreateFeast handles POST /api/v1/admin/feasts
func (h *Handlers) CreateFeast(w http.ResponseWriter, r *http.Request) {
	var req FeastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	month, err := parseMonthJSON(req.Month)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	feast := calendar.Feast{Month: month, Day: req.Day, Name: req.Name, Kind: calendar.FeastKind(req.Kind)}
	if err := feast.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	rec, err := h.feasts.Create(r.Context(), feast)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteConflict(w, "A feast with that name already exists on that day")
			return
		}
		logger.Error(r.Context(), "create feast", err)
		WriteInternalError(w, "Failed to create feast")
		return
	}

	logger.Info(r.Context(), "feast created", slog.Int64("id", rec.ID), slog.String("name", rec.Name))
	WriteCreated(w, rec)
}

// DeleteFeast handles DELETE /api/v1/admin/feasts/{id}
func (h *Handlers) DeleteFeast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid feast ID")
		return
	}

	if err := h.feasts.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Feast not found")
			return
		}
		logger.Error(r.Context(), "delete feast", err, slog.Int64("id", id))
		WriteInternalError(w, "Failed to delete feast")
		return
	}

	logger.Info(r.Context(), "feast deleted", slog.Int64("id", id))
	WriteSuccess(w, map[string]any{"deleted": id})
}

func (h *Handlers) writeDay(w http.ResponseWriter, r *http.Request, d calendar.CivilDate) {
	cd, err := h.conv.Convert(d)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidDate) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "convert date", err, slog.String("date", d.String()))
		WriteInternalError(w, "Failed to convert date")
		return
	}
	WriteSuccess(w, dayResponse(d, cd, h.feasts.Table()))
}

func dayResponse(d calendar.CivilDate, cd calendar.CopticDate, table calendar.FeastTable) DayResponse {
	return DayResponse{
		CivilDate: d.String(),
		Weekday:   d.Time().Weekday().String(),
		Coptic:    cd,
		Display:   cd.String(),
		Progress:  cd.Progress(),
		Feasts:    table.For(cd),
	}
}

func parseMonthJSON(raw json.RawMessage) (calendar.Month, error) {
	if len(raw) == 0 {
		return 0, errors.New("month is required")
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return calendar.ParseMonth(strconv.Itoa(n))
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return calendar.ParseMonth(name)
	}
	return 0, errors.New("month must be a number or a month name")
}
