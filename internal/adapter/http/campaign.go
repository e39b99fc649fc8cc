package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"milestone-escrow/internal/core/port"
)

type createCampaignRequest struct {
	Creator        string                `json:"creator"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	TargetAmount   int64                 `json:"target_amount"`
	MilestoneCount uint64                `json:"milestone_count"`
	Milestones     []putMilestoneRequest `json:"milestones"`
}

type contributeRequest struct {
	Backer string `json:"backer"`
	Amount int64  `json:"amount"`
}

type requesterRequest struct {
	Requester string `json:"requester"`
}

// handleCreateCampaign creates a campaign, optionally with its milestones,
// and answers 201 with its id.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body createCampaignRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "create campaign", err)
		return
	}
	drafts := make([]port.MilestoneDraft, 0, len(body.Milestones))
	for _, m := range body.Milestones {
		drafts = append(drafts, port.MilestoneDraft{
			Title:             m.Title,
			Description:       m.Description,
			ReleaseAmount:     m.ReleaseAmount,
			RequiredApprovals: m.RequiredApprovals,
		})
	}
	id, err := h.svc.CreateCampaign(r.Context(), port.CreateCampaignReq{
		Creator:        orPrincipal(r, body.Creator),
		Title:          body.Title,
		Description:    body.Description,
		TargetAmount:   body.TargetAmount,
		MilestoneCount: body.MilestoneCount,
		Milestones:     drafts,
	})
	if err != nil {
		h.writeError(w, r, "create campaign", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.svc.ListCampaigns(r.Context())
	if err != nil {
		h.writeError(w, r, "list campaigns", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, "get campaign", err)
		return
	}
	c, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// handleContribute adds to the escrow balance and answers 204.
func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, "contribute", err)
		return
	}
	var body contributeRequest
	if err = decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "contribute", err)
		return
	}
	if err = h.svc.Contribute(r.Context(), id, orPrincipal(r, body.Backer), body.Amount); err != nil {
		h.writeError(w, r, "contribute", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, "get contribution", err)
		return
	}
	contrib, err := h.svc.GetContribution(r.Context(), id, chi.URLParam(r, "backer"))
	if err != nil {
		h.writeError(w, r, "get contribution", err)
		return
	}
	h.writeJSON(w, http.StatusOK, contrib)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, "deactivate campaign", err)
		return
	}
	var body requesterRequest
	if err = decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "deactivate campaign", err)
		return
	}
	if err = h.svc.DeactivateCampaign(r.Context(), id, orPrincipal(r, body.Requester)); err != nil {
		h.writeError(w, r, "deactivate campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
