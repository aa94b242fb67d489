package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/maya-kin/internal/calendar"
	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/logger"
	"github.com/zapponejosh/maya-kin/internal/lookup"
	"github.com/zapponejosh/maya-kin/internal/table"
)

// maxPreviewRows caps the preview query parameter of the table endpoint.
const maxPreviewRows = 100

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	svc     *lookup.Service
	metrics *Metrics
	cfg     *config.Config
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *lookup.Service, metrics *Metrics, cfg *config.Config, logger *slog.Logger) *Handlers {
	metrics.tables.Set(float64(len(svc.Tables())))
	return &Handlers{
		svc:     svc,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	opts := h.svc.Options()

	missing := []string{}
	for _, name := range []string{opts.MatrixTable, opts.BirthdayTable} {
		if _, err := h.svc.Table(name); err != nil {
			missing = append(missing, name)
		}
	}

	status := "healthy"
	if len(missing) > 0 {
		status = "degraded"
	}

	WriteSuccess(w, map[string]interface{}{
		"status":         status,
		"tables":         len(h.svc.Tables()),
		"missing_tables": missing,
		"matrix_table":   opts.MatrixTable,
		"birthday_table": opts.BirthdayTable,
	})
}

// GetKin handles GET /api/v1/kin/{kin}
func (h *Handlers) GetKin(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "kin")

	n, err := strconv.Atoi(raw)
	if err != nil {
		h.metrics.observeLookup("kin", "invalid")
		WriteBadRequest(w, fmt.Sprintf("Invalid KIN: %s. Use an integer between 1 and %d", raw, calendar.RingSize))
		return
	}
	k, err := calendar.NewKin(n)
	if err != nil {
		h.metrics.observeLookup("kin", "invalid")
		WriteBadRequest(w, err.Error())
		return
	}

	rec, err := h.svc.Kin(k)
	if err != nil {
		h.writeLookupError(w, r, "kin", err)
		return
	}

	h.metrics.observeLookup("kin", "hit")
	WriteSuccess(w, map[string]interface{}{
		"kin":    k,
		"tone":   k.Tone(),
		"seal":   k.Seal(),
		"record": rec,
	})
}

// GetBirthday handles GET /api/v1/birthday?month=M&day=D or ?date=YYYY-MM-DD
//
// A date may also be written M/D. Every matching row is returned; an empty
// list is a successful answer.
func (h *Handlers) GetBirthday(w http.ResponseWriter, r *http.Request) {
	month, day, err := monthDayFromQuery(r)
	if err != nil {
		h.metrics.observeLookup("birthday", "invalid")
		WriteBadRequest(w, err.Error())
		return
	}

	rows, err := h.svc.Birthdays(month, day)
	if err != nil {
		h.writeLookupError(w, r, "birthday", err)
		return
	}

	outcome := "hit"
	if len(rows) == 0 {
		outcome = "miss"
	}
	h.metrics.observeLookup("birthday", outcome)

	WriteSuccess(w, map[string]interface{}{
		"key":  table.MonthDayKey(month, day),
		"rows": rows,
	})
}

// GetCalc handles GET /api/v1/calc/{date}?second_half=true
func (h *Handlers) GetCalc(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		h.metrics.observeLookup("calc", "invalid")
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	secondHalf := false
	if v := r.URL.Query().Get("second_half"); v != "" {
		secondHalf, err = strconv.ParseBool(v)
		if err != nil {
			h.metrics.observeLookup("calc", "invalid")
			WriteBadRequest(w, fmt.Sprintf("Invalid second_half: %s", v))
			return
		}
	}

	res, err := h.svc.KinForDate(calendar.KeyFromDate(date, secondHalf))
	if err != nil {
		h.writeLookupError(w, r, "calc", err)
		return
	}

	h.metrics.observeLookup("calc", "hit")
	WriteSuccess(w, res)
}

// ListTables handles GET /api/v1/tables
func (h *Handlers) ListTables(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.svc.Tables())
}

// GetTable handles GET /api/v1/tables/{name}?preview=N
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	preview := 5
	if v := r.URL.Query().Get("preview"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxPreviewRows {
			WriteBadRequest(w, fmt.Sprintf("Invalid preview: %s. Use 0 to %d", v, maxPreviewRows))
			return
		}
		preview = n
	}

	t, err := h.svc.Table(name)
	if err != nil {
		WriteNotFound(w, fmt.Sprintf("Table %q is not loaded", name))
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"name":    t.Name,
		"source":  t.Source,
		"columns": t.Columns,
		"rows":    t.Len(),
		"preview": t.Head(preview),
	})
}

// writeLookupError maps lookup errors onto responses.
func (h *Handlers) writeLookupError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case errors.Is(err, table.ErrTableNotFound):
		h.metrics.observeLookup(kind, "unavailable")
		logger.Warn(r.Context(), "reference table missing", slog.String("kind", kind), slog.Any("error", err))
		WriteTableNotFound(w, err.Error())
	case errors.Is(err, table.ErrNotFound):
		h.metrics.observeLookup(kind, "miss")
		WriteNotFound(w, err.Error())
	case errors.Is(err, calendar.ErrOutOfRange),
		errors.Is(err, calendar.ErrInvalidMonth),
		errors.Is(err, calendar.ErrInvalidDay),
		errors.Is(err, calendar.ErrInvalidKin):
		h.metrics.observeLookup(kind, "invalid")
		WriteBadRequest(w, err.Error())
	default:
		h.metrics.observeLookup(kind, "error")
		logger.Error(r.Context(), "lookup failed", err, slog.String("kind", kind))
		WriteInternalError(w, "Lookup failed")
	}
}

// monthDayFromQuery reads either month+day or date from the query string.
func monthDayFromQuery(r *http.Request) (int, int, error) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		month, day, ok := table.ParseMonthDay(date)
		if !ok {
			return 0, 0, fmt.Errorf("invalid date: %s (use YYYY-MM-DD or MM/DD)", date)
		}
		return month, day, nil
	}

	monthStr, dayStr := q.Get("month"), q.Get("day")
	if monthStr == "" || dayStr == "" {
		return 0, 0, errors.New("either date or both month and day parameters are required")
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month: %s", monthStr)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day: %s", dayStr)
	}
	return month, day, nil
}
