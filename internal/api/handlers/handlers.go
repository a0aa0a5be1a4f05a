package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
	"github.com/dvloznov/sales-dashboard/internal/auth"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/export"
	"github.com/dvloznov/sales-dashboard/internal/jobs"
	"github.com/dvloznov/sales-dashboard/internal/report"
	"github.com/dvloznov/sales-dashboard/internal/session"
)

// queryFields maps query parameter names to filter fields. The parameter
// names double as the JSON keys the frontend sends back unchanged.
var queryFields = []report.Field{
	report.FieldMonth, report.FieldClient, report.FieldProduct,
	report.FieldClientName, report.FieldDomesticExport, report.FieldCountry,
	report.FieldRegion, report.FieldDealerChain,
	report.FieldCPNCP, report.FieldCategory, report.FieldBrand,
	report.FieldTaste, report.FieldPackage, report.FieldNote,
}

// DashboardHandler serves every report endpoint off the current snapshot.
type DashboardHandler struct {
	sessions    *session.Store
	annotations *report.Annotations
	publisher   jobs.Publisher
	jobStore    jobs.JobStore
	rate        decimal.Decimal
	yoyEndMonth int
	log         zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(sessions *session.Store, annotations *report.Annotations, publisher jobs.Publisher, jobStore jobs.JobStore, rate decimal.Decimal, yoyEndMonth int, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		sessions:    sessions,
		annotations: annotations,
		publisher:   publisher,
		jobStore:    jobStore,
		rate:        rate,
		yoyEndMonth: yoyEndMonth,
		log:         log,
	}
}

// snapshot fetches the current snapshot, writing a 503 when data has not
// loaded yet.
func (h *DashboardHandler) snapshot(w http.ResponseWriter) (*session.Snapshot, bool) {
	snap, ok := h.sessions.Current()
	if !ok {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Data not loaded yet")
		return nil, false
	}
	return snap, true
}

// filterState builds a filter state from request query parameters.
func filterState(q url.Values) report.FilterState {
	state := report.NewFilterState()
	for _, f := range queryFields {
		state.Set(f, q.Get(string(f)))
	}
	state.Search = q.Get("search")
	return state
}

func intParam(q url.Values, key string, fallback int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// filtered applies the request's filter and sort parameters to the snapshot.
func filtered(snap *session.Snapshot, q url.Values) []domain.Transaction {
	txs := report.Filter(snap.Sales, snap.Index, filterState(q))
	if col := q.Get("sort"); col != "" {
		dir := report.Asc
		if q.Get("dir") == string(report.Desc) {
			dir = report.Desc
		}
		txs = report.Sort(txs, snap.Index, col, dir)
	}
	return txs
}

// Login handles POST /api/login
func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	user, ok := auth.Authenticate(snap.Users, req.Username, req.Password)
	if !ok {
		h.log.Warn().Str("username", req.Username).Msg("Login rejected")
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"username": user.Username,
		"name":     user.Name,
	})
}

// Sales handles GET /api/sales
func (h *DashboardHandler) Sales(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	txs := filtered(snap, q)

	page := intParam(q, "page", 1)
	perPage := intParam(q, "perPage", 0)
	rows := report.JoinRows(report.Page(txs, page, perPage), snap.Index)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rows":      rows,
		"columns":   report.TableColumns,
		"total":     len(txs),
		"page":      page,
		"pageCount": report.PageCount(len(txs), perPage),
		"fileDate":  snap.FileDate,
	})
}

// Summary handles GET /api/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	txs := filtered(snap, r.URL.Query())
	middleware.WriteJSON(w, http.StatusOK, report.Summarize(txs, h.rate))
}

// Charts handles GET /api/charts
// All chart datasets are computed over the same filtered set in one
// response, mirroring how the dashboard renders them together.
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	txs := filtered(snap, r.URL.Query())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"monthly":    report.ByMonth(txs),
		"regions":    report.ByRegion(txs, snap.Index),
		"products":   report.TopProducts(txs, report.TopN),
		"clients":    report.TopClients(txs, report.TopN),
		"categories": report.ByCategory(txs, snap.Index),
	})
}

// YoY handles GET /api/yoy
func (h *DashboardHandler) YoY(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	endMonth := intParam(r.URL.Query(), "endMonth", h.yoyEndMonth)
	rep := report.YearOverYear(snap.Sales, snap.Index, endMonth)
	rows := report.Derive(rep, h.annotations)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prevYear":      rep.PrevYear,
		"currYear":      rep.CurrYear,
		"endMonth":      rep.EndMonth,
		"rows":          rows,
		"countryTotals": report.CountryTotals(rep),
		"columns":       report.YoYColumnsFor(rep.PrevYear, rep.CurrYear),
	})
}

// SaveAnnotation handles PUT /api/yoy/annotations
func (h *DashboardHandler) SaveAnnotation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country    string `json:"country"`
		ClientCode string `json:"clientCode"`
		Target     int64  `json:"target"`
		Confirmed  int64  `json:"confirmed"`
		Note       string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Country == "" || req.ClientCode == "" {
		middleware.WriteError(w, http.StatusBadRequest, "country and clientCode are required")
		return
	}

	key := report.AnnotationKey(req.Country, req.ClientCode)
	h.annotations.Set(key, report.Annotation{
		Target:    req.Target,
		Confirmed: req.Confirmed,
		Note:      req.Note,
	})

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"key": key})
}

// FilterOptions handles GET /api/filters
func (h *DashboardHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report.Options(snap.Sales, snap.Clients, snap.Products))
}

// ExportTable handles GET /api/export
func (h *DashboardHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	txs := filtered(snap, r.URL.Query())
	blob, err := export.WriteTable(report.TableColumns, report.JoinRows(txs, snap.Index))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build sales export")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	writeAttachment(w, fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102")), blob)
}

// ExportYoY handles GET /api/export/yoy
func (h *DashboardHandler) ExportYoY(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	endMonth := intParam(r.URL.Query(), "endMonth", h.yoyEndMonth)
	rep := report.YearOverYear(snap.Sales, snap.Index, endMonth)
	rows := report.Derive(rep, h.annotations)

	blob, err := export.WriteYoY(report.YoYColumnsFor(rep.PrevYear, rep.CurrYear), rows)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build YoY export")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	writeAttachment(w, fmt.Sprintf("yoy-%s-%s.xlsx", rep.PrevYear, rep.CurrYear), blob)
}

func writeAttachment(w http.ResponseWriter, filename string, blob []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.Write(blob)
}

// Refresh handles POST /api/refresh
// It enqueues an asynchronous reload of all source workbooks.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestedBy string `json:"requested_by"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	job := &jobs.RefreshDataJob{RequestedBy: req.RequestedBy}
	if err := h.publisher.PublishRefreshData(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue refresh job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue refresh")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// ListJobs handles GET /api/jobs
func (h *DashboardHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := jobs.JobFilter{
		RequestedBy: q.Get("requested_by"),
		Status:      jobs.JobStatus(q.Get("status")),
		Limit:       intParam(q, "limit", 0),
		Offset:      intParam(q, "offset", 0),
	}

	list, err := h.jobStore.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetJob handles GET /api/jobs/:jobId
func (h *DashboardHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// Health handles GET /health
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if snap, ok := h.sessions.Current(); ok {
		resp["fileDate"] = snap.FileDate
		resp["loadedAt"] = snap.LoadedAt.Format(time.RFC3339)
	} else {
		resp["status"] = "loading"
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
