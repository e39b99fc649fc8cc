package configs

import "milestone-escrow/internal/core/domain"

// Escrow holds the business policies of the engine.
type Escrow struct {
	// ApprovalPolicy is "distinct" (one vote per identity) or "per_call".
	ApprovalPolicy string `env:"APPROVAL_POLICY" envDefault:"distinct"`
	// RequireBacker restricts approvals to identities that contributed.
	RequireBacker bool `env:"REQUIRE_BACKER" envDefault:"false"`
	// MaxMilestones bounds milestone_count and milestone ids.
	MaxMilestones uint64 `env:"MAX_MILESTONES" envDefault:"100"`
}

// Policy parses ApprovalPolicy.
func (c Escrow) Policy() (domain.ApprovalPolicy, error) {
	return domain.ParseApprovalPolicy(c.ApprovalPolicy)
}
