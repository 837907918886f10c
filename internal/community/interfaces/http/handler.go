package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"energy-community/internal/audit"
	"energy-community/internal/auth"
	"energy-community/internal/community/application"
	"energy-community/internal/community/interfaces/export"
	"energy-community/internal/observability/metrics"
)

const (
	usersPrefix       = "/api/v1/users/"
	communitiesPrefix = "/api/v1/communities/"
	contractsPrefix   = "/api/v1/contracts/"
	creditsPrefix     = "/api/v1/credits/"

	maxBodyBytes = 1 << 20
)

// Handler exposes the settlement use cases over HTTP.
type Handler struct {
	service     *application.SettlementService
	auditLogger audit.Logger
	logger      *zap.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *application.SettlementService, auditLogger audit.Logger, logger *zap.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("community handler: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle(usersPrefix, h)
	mux.Handle(communitiesPrefix, h)
	mux.Handle(contractsPrefix, h)
	mux.Handle(creditsPrefix, h)
}

// ServeHTTP routes:
//
//	GET  /api/v1/users/{id}/balance?period=YYYY-MM
//	GET  /api/v1/users/{id}/balance.pdf?period=YYYY-MM
//	GET  /api/v1/users/{id}/profile
//	GET  /api/v1/communities/{id}/members
//	GET  /api/v1/communities/{id}/members.xlsx
//	POST /api/v1/communities/{id}/members
//	POST /api/v1/contracts/{id}/status
//	POST /api/v1/credits/{id}/consume
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, usersPrefix):
		h.routeUsers(w, r, strings.TrimPrefix(path, usersPrefix))
	case strings.HasPrefix(path, communitiesPrefix):
		h.routeCommunities(w, r, strings.TrimPrefix(path, communitiesPrefix))
	case strings.HasPrefix(path, contractsPrefix):
		h.routeResource(w, r, strings.TrimPrefix(path, contractsPrefix), "status", h.handleContractStatus)
	case strings.HasPrefix(path, creditsPrefix):
		h.routeResource(w, r, strings.TrimPrefix(path, creditsPrefix), "consume", h.handleConsumeCredit)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) routeUsers(w http.ResponseWriter, r *http.Request, rest string) {
	id, action, ok := splitIDAction(rest)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID, err := parseID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	switch action {
	case "balance":
		writeResult(w, h.service.GetUserEnergyBalance(r.Context(), userID, r.URL.Query().Get("period")))
	case "balance.pdf":
		h.handleBalancePDF(w, r, userID)
	case "profile":
		writeResult(w, h.service.GetUserWithCommunityData(r.Context(), userID))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) routeCommunities(w http.ResponseWriter, r *http.Request, rest string) {
	id, action, ok := splitIDAction(rest)
	if !ok {
		http.NotFound(w, r)
		return
	}
	communityID, err := parseID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid community id")
		return
	}
	switch {
	case action == "members" && r.Method == http.MethodGet:
		writeResult(w, h.service.GetCommunityUsers(r.Context(), communityID))
	case action == "members" && r.Method == http.MethodPost:
		h.handleRegister(w, r, communityID)
	case action == "members.xlsx" && r.Method == http.MethodGet:
		h.handleRosterXLSX(w, r, communityID)
	case action == "members" || action == "members.xlsx":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) routeResource(w http.ResponseWriter, r *http.Request, rest, want string, handle func(http.ResponseWriter, *http.Request, int64)) {
	id, action, ok := splitIDAction(rest)
	if !ok || action != want {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resourceID, err := parseID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	handle(w, r, resourceID)
}

type registerRequest struct {
	UserID            int64            `json:"user_id"`
	Role              string           `json:"role"`
	PDEShare          *decimal.Decimal `json:"pde_share"`
	InstalledCapacity *decimal.Decimal `json:"installed_capacity"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request, communityID int64) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := h.service.RegisterUserInCommunity(r.Context(), application.RegisterMemberCommand{
		UserID:            req.UserID,
		CommunityID:       communityID,
		Role:              req.Role,
		PDEShare:          req.PDEShare,
		InstalledCapacity: req.InstalledCapacity,
	})
	writeResult(w, res)
	if res.Success() {
		h.logAudit(r, communityID, audit.ActionMemberRegister, "membership", strconv.FormatInt(res.Data.MembershipID, 10), map[string]any{
			"user_id": res.Data.UserID,
			"role":    res.Data.Role,
		})
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleContractStatus(w http.ResponseWriter, r *http.Request, contractID int64) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := h.service.UpdateContractStatus(r.Context(), contractID, req.Status)
	writeResult(w, res)
	if res.Success() {
		h.logAudit(r, 0, audit.ActionContractStatus, "contract", strconv.FormatInt(contractID, 10), map[string]any{
			"status": res.Data.Status,
		})
	}
}

type consumeRequest struct {
	KWh decimal.Decimal `json:"kwh"`
}

func (h *Handler) handleConsumeCredit(w http.ResponseWriter, r *http.Request, creditID int64) {
	var req consumeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := h.service.ConsumeCredit(r.Context(), creditID, req.KWh)
	writeResult(w, res)
	if res.Success() {
		h.logAudit(r, 0, audit.ActionCreditConsume, "credit", strconv.FormatInt(creditID, 10), map[string]any{
			"kwh":           req.KWh.String(),
			"available_kwh": res.Data.AvailableKWh.String(),
		})
	}
}

func (h *Handler) handleBalancePDF(w http.ResponseWriter, r *http.Request, userID int64) {
	start := time.Now()
	res := h.service.GetUserEnergyBalance(r.Context(), userID, r.URL.Query().Get("period"))
	if !res.Success() {
		writeResult(w, res)
		return
	}
	data, err := export.BuildBalancePDF(res.Data)
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		h.logger.Error("balance pdf export failed", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))
	writeFile(w, export.ContentTypePDF, fmt.Sprintf("balance-%d-%s.pdf", userID, res.Data.Period), data)
	h.logAudit(r, 0, audit.ActionExport, "balance", strconv.FormatInt(userID, 10), map[string]any{
		"format": "pdf",
		"period": res.Data.Period.String(),
	})
}

func (h *Handler) handleRosterXLSX(w http.ResponseWriter, r *http.Request, communityID int64) {
	start := time.Now()
	res := h.service.GetCommunityUsers(r.Context(), communityID)
	if !res.Success() {
		writeResult(w, res)
		return
	}
	data, err := export.BuildRosterXLSX(res.Data)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		h.logger.Error("roster xlsx export failed", zap.Int64("community_id", communityID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(start))
	writeFile(w, export.ContentTypeXLSX, fmt.Sprintf("community-%d-%s.xlsx", communityID, res.Data.Period), data)
	h.logAudit(r, communityID, audit.ActionExport, "roster", strconv.FormatInt(communityID, 10), map[string]any{
		"format": "xlsx",
		"period": res.Data.Period.String(),
	})
}

func (h *Handler) logAudit(r *http.Request, communityID int64, action, resourceType, resourceID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		CommunityID:  communityID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		h.logger.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.New("read body error")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func splitIDAction(rest string) (string, string, bool) {
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
