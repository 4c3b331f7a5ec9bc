package domain

import "time"

// Verdict is the tri-state shown for a target.
type Verdict string

const (
	VerdictChecking Verdict = "checking"
	VerdictOnline   Verdict = "online"
	VerdictOffline  Verdict = "offline"
)

// StatusMap is the result of one completed pass: true means reachable.
// A missing key means the target has not been resolved yet.
type StatusMap map[TargetID]bool

// Verdict maps the stored boolean to its tri-state value.
func (m StatusMap) Verdict(id TargetID) Verdict {
	up, ok := m[id]
	switch {
	case !ok:
		return VerdictChecking
	case up:
		return VerdictOnline
	default:
		return VerdictOffline
	}
}

// Clone returns an independent copy; nil stays nil.
func (m StatusMap) Clone() StatusMap {
	if m == nil {
		return nil
	}
	out := make(StatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Snapshot is the latest published StatusMap of a group.
// Pass is zero until the first pass has been published.
type Snapshot struct {
	Group     Group     `json:"group"`
	Statuses  StatusMap `json:"statuses"`
	CheckedAt time.Time `json:"checked_at"`
	Pass      uint64    `json:"pass"`
}

// Verdicts resolves every target against the snapshot, so ids that were
// never probed come back as checking.
func (s Snapshot) Verdicts(targets []Target) map[TargetID]Verdict {
	out := make(map[TargetID]Verdict, len(targets))
	for _, t := range targets {
		out[t.ID] = s.Statuses.Verdict(t.ID)
	}
	return out
}
