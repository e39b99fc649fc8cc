package httpadapter

import (
	"net/http"

	"milestone-escrow/internal/core/port"
)

type putMilestoneRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	ReleaseAmount     int64  `json:"release_amount"`
	RequiredApprovals uint64 `json:"required_approvals"`
}

type approveRequest struct {
	Backer string `json:"backer"`
}

// milestoneIDs parses the {id} and {mid} path parameters.
func milestoneIDs(r *http.Request) (uint64, uint64, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	mid, err := pathID(r, "mid")
	if err != nil {
		return 0, 0, err
	}
	return id, mid, nil
}

// handlePutMilestone defines or redefines a milestone and returns the stored
// record.
func (h *Handler) handlePutMilestone(w http.ResponseWriter, r *http.Request) {
	id, mid, err := milestoneIDs(r)
	if err != nil {
		h.writeError(w, r, "put milestone", err)
		return
	}
	var body putMilestoneRequest
	if err = decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "put milestone", err)
		return
	}
	err = h.svc.CreateMilestone(r.Context(), port.CreateMilestoneReq{
		CampaignID:        id,
		MilestoneID:       mid,
		Title:             body.Title,
		Description:       body.Description,
		ReleaseAmount:     body.ReleaseAmount,
		RequiredApprovals: body.RequiredApprovals,
	})
	if err != nil {
		h.writeError(w, r, "put milestone", err)
		return
	}
	m, err := h.svc.GetMilestone(r.Context(), id, mid)
	if err != nil {
		h.writeError(w, r, "put milestone", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleGetMilestone(w http.ResponseWriter, r *http.Request) {
	id, mid, err := milestoneIDs(r)
	if err != nil {
		h.writeError(w, r, "get milestone", err)
		return
	}
	m, err := h.svc.GetMilestone(r.Context(), id, mid)
	if err != nil {
		h.writeError(w, r, "get milestone", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, mid, err := milestoneIDs(r)
	if err != nil {
		h.writeError(w, r, "approve milestone", err)
		return
	}
	var body approveRequest
	if err = decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "approve milestone", err)
		return
	}
	if err = h.svc.ApproveMilestone(r.Context(), id, mid, orPrincipal(r, body.Backer)); err != nil {
		h.writeError(w, r, "approve milestone", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	id, mid, err := milestoneIDs(r)
	if err != nil {
		h.writeError(w, r, "release milestone", err)
		return
	}
	var body requesterRequest
	if err = decodeJSON(r, &body); err != nil {
		h.writeError(w, r, "release milestone", err)
		return
	}
	if err = h.svc.ReleaseMilestone(r.Context(), id, mid, orPrincipal(r, body.Requester)); err != nil {
		h.writeError(w, r, "release milestone", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
