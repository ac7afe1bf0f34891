package metering

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/plan"
)

// Key identifies a usage counter. Counters for different keys are fully
// independent; mutual exclusion is only ever required per key.
type Key struct {
	UserID  uuid.UUID
	Feature plan.Feature
}

// Usage is a snapshot of one counter: consumption since the last period
// boundary and the instant that boundary was crossed. LastReset reflects the
// true most-recent reset, not record creation time.
type Usage struct {
	Count     int64     `json:"count"`
	LastReset time.Time `json:"last_reset"`
}

// Reason explains a metering decision.
type Reason string

const (
	ReasonOK          Reason = "ok"
	ReasonUnavailable Reason = "feature_unavailable"
	ReasonExhausted   Reason = "quota_exhausted"
)

// Decision is the outcome of CheckAndConsume. A deny is a structured
// decision, not an error: the user can recover by upgrading or waiting for
// the reset.
type Decision struct {
	Allowed   bool       `json:"allowed"`
	Remaining plan.Quota `json:"remaining"`
	Reason    Reason     `json:"reason"`
}

// FeatureUsage is a read-only dashboard view of one meterable feature.
type FeatureUsage struct {
	Feature     plan.Feature `json:"feature"`
	Used        int64        `json:"used"`
	Quota       plan.Quota   `json:"quota"`
	Remaining   plan.Quota   `json:"remaining"`
	ResetPeriod plan.Period  `json:"reset_period"`
	LastReset   time.Time    `json:"last_reset,omitzero"`
}
