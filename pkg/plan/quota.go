package plan

import (
	"encoding/json"
	"fmt"
)

// Quota is a per-period allowance for a meterable feature. It is either
// bounded by a non-negative count or unbounded. A bounded zero quota means
// the feature is unavailable on the plan, which is not the same thing as an
// exhausted quota and must never be conflated with Unbounded.
type Quota struct {
	n         int64
	unbounded bool
}

// Bounded returns a quota limited to n uses per period. Negative values are
// clamped to zero.
func Bounded(n int64) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{n: n}
}

// Unbounded returns a quota that never denies.
func Unbounded() Quota {
	return Quota{unbounded: true}
}

// IsUnbounded reports whether the quota has no limit.
func (q Quota) IsUnbounded() bool { return q.unbounded }

// IsZero reports whether the feature is unavailable (bounded to zero).
func (q Quota) IsZero() bool { return !q.unbounded && q.n == 0 }

// Limit returns the bounded limit. It panics for unbounded quotas; callers
// must check IsUnbounded first.
func (q Quota) Limit() int64 {
	if q.unbounded {
		panic("plan: Limit called on unbounded quota")
	}
	return q.n
}

// Remaining returns how many uses are left after used consumptions this
// period. Unbounded quotas always report themselves.
func (q Quota) Remaining(used int64) Quota {
	if q.unbounded {
		return q
	}
	return Bounded(q.n - used)
}

func (q Quota) String() string {
	if q.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", q.n)
}

// MarshalJSON encodes bounded quotas as numbers and unbounded ones as the
// string "unbounded", matching the wire contract of the usage endpoints.
func (q Quota) MarshalJSON() ([]byte, error) {
	if q.unbounded {
		return json.Marshal("unbounded")
	}
	return json.Marshal(q.n)
}

// UnmarshalJSON accepts either a number or the string "unbounded".
func (q *Quota) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unbounded" {
			return fmt.Errorf("%w: %q", ErrInvalidQuota, s)
		}
		*q = Unbounded()
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuota, data)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuota, n)
	}
	*q = Bounded(n)
	return nil
}

// UnmarshalYAML accepts either an integer or the string "unbounded", so plan
// files can write `scripts: 100` and `scripts: unbounded` side by side.
func (q *Quota) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		if s != "unbounded" {
			return fmt.Errorf("%w: %q", ErrInvalidQuota, s)
		}
		*q = Unbounded()
		return nil
	}
	var n int64
	if err := unmarshal(&n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuota, err)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuota, n)
	}
	*q = Bounded(n)
	return nil
}
