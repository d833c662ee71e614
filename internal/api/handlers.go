// Package api exposes the coordinator to the chat gateway as a JSON
// HTTP API. Handlers only translate between the wire format and the
// service layer; all rules live in internal/service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/titilda/supersanta/internal/export"
	"github.com/titilda/supersanta/internal/service"
)

// Handler serves the campaign and messaging endpoints.
type Handler struct {
	campaigns          *service.CampaignService
	messages           *service.MessageService
	profileURLTemplate string
}

// NewHandler creates a Handler backed by the given services.
func NewHandler(campaigns *service.CampaignService, messages *service.MessageService, profileURLTemplate string) *Handler {
	return &Handler{
		campaigns:          campaigns,
		messages:           messages,
		profileURLTemplate: profileURLTemplate,
	}
}

type createCampaignRequest struct {
	GroupID     string `json:"group_id"`
	RequesterID string `json:"requester_id"`
	Name        string `json:"name"`
}

type requesterRequest struct {
	RequesterID string `json:"requester_id"`
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

type sendMessageRequest struct {
	SenderID      string `json:"sender_id"`
	CampaignIndex int    `json:"campaign_index,omitempty"`
	Text          string `json:"text"`
}

type assignmentResponse struct {
	GiverID     string `json:"giver_id"`
	RecipientID string `json:"recipient_id"`
}

type campaignChoiceResponse struct {
	Index        int    `json:"index"`
	GroupID      string `json:"group_id"`
	CampaignName string `json:"campaign_name"`
	RecipientID  string `json:"recipient_id"`
}

// CreateCampaign handles POST /v1/campaigns.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.GroupID == "" || req.RequesterID == "" || req.Name == "" {
		writeBadRequest(w, "group_id, requester_id, and name are required")
		return
	}

	if err := h.campaigns.Create(r.Context(), req.GroupID, req.RequesterID, req.Name); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"group_id": req.GroupID, "name": req.Name})
}

// DeleteCampaign handles DELETE /v1/campaigns/{group}.
func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	var req requesterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RequesterID == "" {
		writeBadRequest(w, "requester_id is required")
		return
	}

	if err := h.campaigns.Delete(r.Context(), r.PathValue("group"), req.RequesterID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// Join handles POST /v1/campaigns/{group}/join.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeBadRequest(w, "user_id is required")
		return
	}

	if err := h.campaigns.Join(r.Context(), r.PathValue("group"), req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"joined": true})
}

// Leave handles POST /v1/campaigns/{group}/leave.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeBadRequest(w, "user_id is required")
		return
	}

	if err := h.campaigns.Leave(r.Context(), r.PathValue("group"), req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"left": true})
}

// Start handles POST /v1/campaigns/{group}/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req requesterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RequesterID == "" {
		writeBadRequest(w, "requester_id is required")
		return
	}

	assignments, err := h.campaigns.Start(r.Context(), r.PathValue("group"), req.RequesterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pairs := make([]assignmentResponse, len(assignments))
	for i, a := range assignments {
		pairs[i] = assignmentResponse{GiverID: a.GiverID, RecipientID: a.RecipientID}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": pairs})
}

// Members handles GET /v1/campaigns/{group}/members.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.campaigns.Members(r.Context(), r.PathValue("group"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if members == nil {
		members = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// Export handles GET /v1/campaigns/{group}/export and streams the
// printable assignment sheet.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	name, assignments, err := h.campaigns.Assignments(r.Context(), r.PathValue("group"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="secret-santa.pdf"`)
	if err := export.AssignmentSheet(w, name, assignments, h.profileURLTemplate); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("Assignment sheet export failed", "group_id", r.PathValue("group"), "error", err)
	}
}

// SendMessage handles POST /v1/messages. Without a campaign_index the
// relay delivers if the sender has exactly one started campaign and
// otherwise returns the choices; with an index it delivers to that
// campaign directly.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SenderID == "" || req.Text == "" {
		writeBadRequest(w, "sender_id and text are required")
		return
	}

	if req.CampaignIndex > 0 {
		if err := h.messages.SendTo(r.Context(), req.SenderID, req.CampaignIndex, req.Text); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"delivered": true})
		return
	}

	choices, err := h.messages.Send(r.Context(), req.SenderID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if choices == nil {
		writeJSON(w, http.StatusOK, map[string]any{"delivered": true})
		return
	}

	resp := make([]campaignChoiceResponse, len(choices))
	for i, c := range choices {
		resp[i] = campaignChoiceResponse{
			Index:        i + 1,
			GroupID:      c.GroupID,
			CampaignName: c.CampaignName,
			RecipientID:  c.RecipientID,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"delivered": false, "campaigns": resp})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeServiceError maps the service error taxonomy to HTTP statuses and
// stable machine-readable codes. Every kind keeps its own specific
// message so the gateway can surface it verbatim.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}

	slog.Error("Unhandled service error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal", "internal error")
}

var serviceErrorMappings = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrCampaignExists, http.StatusConflict, "already_exists"},
	{service.ErrNoCampaign, http.StatusNotFound, "not_found"},
	{service.ErrAlreadyJoined, http.StatusConflict, "already_joined"},
	{service.ErrCampaignStarted, http.StatusConflict, "campaign_started"},
	{service.ErrIsOrganizer, http.StatusForbidden, "is_organizer"},
	{service.ErrNotAMember, http.StatusNotFound, "not_a_member"},
	{service.ErrNotOrganizer, http.StatusForbidden, "not_organizer"},
	{service.ErrNoMembers, http.StatusNotFound, "no_members"},
	{service.ErrInsufficientMembers, http.StatusUnprocessableEntity, "insufficient_members"},
	{service.ErrWrongState, http.StatusConflict, "wrong_state"},
	{service.ErrNotStarted, http.StatusConflict, "not_started"},
	{service.ErrNoStartedCampaigns, http.StatusNotFound, "no_started_campaigns"},
	{service.ErrInvalidCampaignIndex, http.StatusUnprocessableEntity, "invalid_campaign_index"},
	{service.ErrDeliveryFailed, http.StatusBadGateway, "delivery_failed"},
}
