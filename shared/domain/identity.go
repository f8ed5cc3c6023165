package domain

import "fmt"

// Project is the host's active project.
type Project struct {
	Name string
	// Host is the organization (collection) name, used for the cloud API root.
	Host string
}

// SubResultRef selects either the latest attempt of a result or one exact sub-result.
type SubResultRef struct {
	id int64
}

// LatestSubResult means "use the most recent attempt".
func LatestSubResult() SubResultRef { return SubResultRef{} }

// SpecificSubResult pins one sub-result. Non-positive ids mean latest.
func SpecificSubResult(id int64) SubResultRef {
	if id <= 0 {
		return SubResultRef{}
	}
	return SubResultRef{id: id}
}

// SubResultFromWire decodes the host's sub-result field; absent, 0 and -1 all mean latest.
func SubResultFromWire(raw *int64) SubResultRef {
	if raw == nil {
		return LatestSubResult()
	}
	return SpecificSubResult(*raw)
}

func (r SubResultRef) IsLatest() bool { return r.id == 0 }

// ID returns the pinned sub-result id and false for the latest attempt.
func (r SubResultRef) ID() (int64, bool) { return r.id, r.id != 0 }

func (r SubResultRef) String() string {
	if r.IsLatest() {
		return "latest"
	}
	return fmt.Sprintf("%d", r.id)
}

// RunIdentity is what the host selected. It is read-only for the previewer.
type RunIdentity struct {
	RunID     int64
	ResultID  *int64
	SubResult SubResultRef
}

// HasResult reports whether a result was selected; a zero id counts as none.
func (i RunIdentity) HasResult() bool {
	return i.ResultID != nil && *i.ResultID != 0
}

// Result returns the selected result id, or 0.
func (i RunIdentity) Result() int64 {
	if !i.HasResult() {
		return 0
	}
	return *i.ResultID
}

type ScopeKind int

const (
	RunScope ScopeKind = iota
	ResultScope
	SubResultScope
)

func (k ScopeKind) String() string {
	switch k {
	case RunScope:
		return "run"
	case ResultScope:
		return "result"
	case SubResultScope:
		return "sub-result"
	default:
		return "unknown"
	}
}

// Scope is the resolved level at which attachments are queried.
type Scope struct {
	Kind        ScopeKind
	RunID       int64
	ResultID    int64
	SubResultID int64
}

func NewRunScope(runID int64) Scope { return Scope{Kind: RunScope, RunID: runID} }

func NewResultScope(runID, resultID int64) Scope {
	return Scope{Kind: ResultScope, RunID: runID, ResultID: resultID}
}

func NewSubResultScope(runID, resultID, subResultID int64) Scope {
	return Scope{Kind: SubResultScope, RunID: runID, ResultID: resultID, SubResultID: subResultID}
}

func (s Scope) String() string {
	switch s.Kind {
	case RunScope:
		return fmt.Sprintf("run %d", s.RunID)
	case ResultScope:
		return fmt.Sprintf("run %d result %d", s.RunID, s.ResultID)
	default:
		return fmt.Sprintf("run %d result %d sub-result %d", s.RunID, s.ResultID, s.SubResultID)
	}
}
