package domain

import (
	"fmt"
	"strings"
)

// ApprovalPolicy decides how approval actions are counted.
type ApprovalPolicy string

const (
	// ApprovalDistinct counts one vote per approver identity.
	ApprovalDistinct ApprovalPolicy = "distinct"
	// ApprovalPerCall counts every approval call, even repeated ones from
	// the same identity.
	ApprovalPerCall ApprovalPolicy = "per_call"
)

// ParseApprovalPolicy normalises a textual policy. An empty value selects
// ApprovalDistinct.
func ParseApprovalPolicy(s string) (ApprovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ApprovalDistinct):
		return ApprovalDistinct, nil
	case string(ApprovalPerCall), "per-call", "percall":
		return ApprovalPerCall, nil
	default:
		return "", fmt.Errorf("unknown approval policy %q", s)
	}
}
