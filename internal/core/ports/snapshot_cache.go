package ports

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/kernel"
)

// Snapshot is the read model answering "where is this parcel right now":
// the ledger entry joined with its open interval.
type Snapshot struct {
	TrackingCode   string    `json:"tracking_code"`
	OrderRef       string    `json:"order_ref"`
	CustomerRef    string    `json:"customer_ref"`
	ItemCount      int       `json:"item_count"`
	Priority       string    `json:"priority"`
	Stage          string    `json:"stage"`
	Version        int64     `json:"version"`
	ReworkCount    int       `json:"rework_count"`
	LastUpdatedBy  string    `json:"last_updated_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	StageEnteredAt time.Time `json:"stage_entered_at"`
	StageOperator  string    `json:"stage_operator"`
	NextStages     []string  `json:"next_stages"`
}

// CommittedParcel names a parcel and the version a committed unit of work
// left it at.
type CommittedParcel struct {
	TrackingCode kernel.TrackingCode
	Version      int64
}

// SnapshotCache is a best-effort cache in front of the snapshot query.
// A miss is reported as (nil, nil); errors are for infrastructure failures only.
//
// Invalidate drops the cached snapshots of committed parcels and remembers
// their versions. Set ignores a snapshot older than the remembered version,
// so a reader that loaded before a commit cannot put its result back after
// the commit invalidated it.
type SnapshotCache interface {
	Get(ctx context.Context, code kernel.TrackingCode) (*Snapshot, error)
	Set(ctx context.Context, snapshot Snapshot) error
	Invalidate(ctx context.Context, parcels ...CommittedParcel) error
}
