package port

import (
	"context"
	"errors"
	"fmt"
)

// ErrConflict is returned by a KVStore when a transaction lost a race with a
// concurrent writer and was rolled back. Retrying is up to the caller.
var ErrConflict = errors.New("transaction conflict")

// KeyKind names the entity stored under a key.
type KeyKind string

const (
	KindCounter      KeyKind = "counter"
	KindCampaign     KeyKind = "campaign"
	KindMilestone    KeyKind = "milestone"
	KindContribution KeyKind = "contribution"
)

// Key addresses one record in the store.
type Key struct {
	Kind        KeyKind
	CampaignID  uint64
	MilestoneID uint64
	Principal   string
}

func CounterKey() Key           { return Key{Kind: KindCounter} }
func CampaignKey(id uint64) Key { return Key{Kind: KindCampaign, CampaignID: id} }
func MilestoneKey(campaignID, id uint64) Key {
	return Key{Kind: KindMilestone, CampaignID: campaignID, MilestoneID: id}
}
func ContributionKey(campaignID uint64, backer string) Key {
	return Key{Kind: KindContribution, CampaignID: campaignID, Principal: backer}
}

// String renders the key in its storage form, e.g. "milestone/7/2".
func (k Key) String() string {
	switch k.Kind {
	case KindCounter:
		return "counter/campaign"
	case KindCampaign:
		return fmt.Sprintf("campaign/%d", k.CampaignID)
	case KindMilestone:
		return fmt.Sprintf("milestone/%d/%d", k.CampaignID, k.MilestoneID)
	case KindContribution:
		return fmt.Sprintf("contribution/%d/%s", k.CampaignID, k.Principal)
	default:
		return fmt.Sprintf("%s/%d/%d/%s", k.Kind, k.CampaignID, k.MilestoneID, k.Principal)
	}
}

// KVStore is the persistence layer for the escrow engine. It is an outbound
// port in hexagonal architecture. Implementations must make each Update
// atomic and isolated with respect to other Updates touching the same keys:
// writes become visible together when fn returns nil and are discarded
// otherwise.
type KVStore interface {
	// Update runs fn inside a read-write transaction.
	Update(ctx context.Context, fn func(tx KVTx) error) error
	// View runs fn inside a read-only transaction. Writes fail.
	View(ctx context.Context, fn func(tx KVTx) error) error
}

// KVTx is the view of the store inside a transaction. Reads observe the
// transaction's own earlier writes.
type KVTx interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	Has(ctx context.Context, key Key) (bool, error)
}

// ErrReadOnly is returned by Set inside View.
var ErrReadOnly = errors.New("write in read-only transaction")
