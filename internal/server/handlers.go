package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/investor-cli/internal/cache"
	"github.com/sells-group/investor-cli/internal/dscr"
	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/settle"
	"github.com/sells-group/investor-cli/internal/store"
	"github.com/sells-group/investor-cli/internal/tenant"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type computeRequest struct {
	Tenant string              `json:"tenant,omitempty"`
	Input  model.ScenarioInput `json:"input"`
}

type computeResponse struct {
	Input     model.ScenarioInput   `json:"input"`
	Result    model.ScenarioResult  `json:"result"`
	Advice    *model.CoachingAdvice `json:"advice,omitempty"`
	Narration string                `json:"narration,omitempty"`
	SliderMin float64               `json:"slider_min"`
	SliderMax float64               `json:"slider_max"`
	Cached    bool                  `json:"cached"`
}

// resolveScenario fills tenant defaults and returns the rate sheet to
// price against. An empty tenant slug means no defaults and the built-in
// fallback ladder.
func (s *Server) resolveScenario(r *http.Request, req *computeRequest) (*model.RateSheet, error) {
	if req.Tenant == "" {
		return nil, nil
	}
	tn, err := s.tenants.Resolve(r.Context(), req.Tenant)
	if err != nil {
		return nil, err
	}
	if req.Input.FicoScore == 0 {
		req.Input.FicoScore = tn.ClientFico
	}
	return tn.RateSheet, nil
}

func (s *Server) handleComputeScenario(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Input.PurchasePrice <= 0 {
		writeError(w, http.StatusBadRequest, "purchase_price must be > 0")
		return
	}

	sheet, err := s.resolveScenario(r, &req)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		zap.L().Error("resolve tenant", zap.String("tenant", req.Tenant), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tenant lookup failed")
		return
	}

	key := cache.ScenarioKey(req.Input, sheet)
	res, cached := cache.GetScenario(r.Context(), s.cache, key)
	if !cached {
		computed := dscr.Compute(req.Input, sheet)
		res = &computed
		cache.PutScenario(r.Context(), s.cache, key, computed, s.cacheTTL)
	}

	advice := dscr.Coach(req.Input, *res, sheet)
	sliderMin, sliderMax := dscr.SliderBounds(*res)

	resp := computeResponse{
		Input:     req.Input,
		Result:    *res,
		Advice:    advice,
		SliderMin: sliderMin,
		SliderMax: sliderMax,
		Cached:    cached,
	}
	if advice != nil && s.advisor != nil {
		resp.Narration = s.advisor.Narrate(r.Context(), req.Input, *res, advice)
	}

	writeJSON(w, http.StatusOK, resp)
}

type saveScenarioRequest struct {
	Tenant string              `json:"tenant"`
	Label  string              `json:"label,omitempty"`
	Input  model.ScenarioInput `json:"input"`
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var req saveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Tenant == "" {
		writeError(w, http.StatusBadRequest, "tenant is required")
		return
	}
	if req.Input.PurchasePrice <= 0 {
		writeError(w, http.StatusBadRequest, "purchase_price must be > 0")
		return
	}

	creq := computeRequest{Tenant: req.Tenant, Input: req.Input}
	sheet, err := s.resolveScenario(r, &creq)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "tenant lookup failed")
		return
	}

	result := dscr.Compute(creq.Input, sheet)
	saved, err := s.st.SaveScenario(r.Context(), model.SavedScenario{
		Tenant: req.Tenant,
		Label:  req.Label,
		Input:  creq.Input,
		Result: result,
		DSCR:   result.DSCR,
	})
	if err != nil {
		zap.L().Error("save scenario", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	filter := store.ScenarioFilter{Tenant: r.URL.Query().Get("tenant")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	scenarios, err := s.st.ListScenarios(r.Context(), filter)
	if err != nil {
		zap.L().Error("list scenarios", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.st.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		zap.L().Error("get scenario", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := s.st.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		zap.L().Error("delete scenario", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settlementRequest struct {
	Parties     []model.Party `json:"parties"`
	NetProceeds float64       `json:"net_proceeds"`
}

type settlementResponse struct {
	Balances  []model.PartyBalance `json:"balances"`
	Transfers []model.Transfer     `json:"transfers"`
}

func (s *Server) handleComputeSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Parties) == 0 {
		writeError(w, http.StatusBadRequest, "parties is required")
		return
	}
	if err := settle.ValidateSplits(req.Parties); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settlementResponse{
		Balances:  settle.Balances(req.Parties, req.NetProceeds),
		Transfers: settle.Compute(req.Parties, req.NetProceeds),
	})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var e model.LedgerEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := s.ledger.Add(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

// entryFilterFromQuery parses the shared ledger query parameters.
func entryFilterFromQuery(r *http.Request) (store.EntryFilter, error) {
	q := r.URL.Query()
	filter := store.EntryFilter{
		Tenant:   q.Get("tenant"),
		Property: q.Get("property"),
		Kind:     model.EntryKind(q.Get("kind")),
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.To = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = n
	}
	return filter, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	entries, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		zap.L().Error("list entries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		zap.L().Error("delete entry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLedgerSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	summary, err := s.ledger.Summary(r.Context(), filter)
	if err != nil {
		zap.L().Error("ledger summary", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "summary failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// tenantView is the public shape of a tenant. Rate sheets are lender
// pricing and never leave the API.
type tenantView struct {
	Slug        string            `json:"slug"`
	ClientName  string            `json:"client_name"`
	ClientFico  int               `json:"client_fico"`
	LoanOfficer model.LoanOfficer `json:"loan_officer"`
	HasSheet    bool              `json:"has_rate_sheet"`
}

func publicTenant(t model.Tenant) tenantView {
	return tenantView{
		Slug:        t.Slug,
		ClientName:  t.ClientName,
		ClientFico:  t.ClientFico,
		LoanOfficer: t.LoanOfficer,
		HasSheet:    !t.RateSheet.Empty(),
	}
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.tenants.List(r.Context())
	if err != nil {
		zap.L().Error("list tenants", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	views := make([]tenantView, 0, len(tenants))
	for _, t := range tenants {
		views = append(views, publicTenant(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tenants": views})
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tn, err := s.tenants.Resolve(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		zap.L().Error("get tenant", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, publicTenant(*tn))
}
