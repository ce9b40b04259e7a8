package models

// Term is the academic window a timestamp falls into.
type Term string

const (
	TermFall   Term = "fall"
	TermSpring Term = "spring"
	// TermOther covers the summer months outside both academic windows.
	TermOther Term = "other"
)

// SemesterTab identifies one of the tri-bucket views exposed to clients.
type SemesterTab string

const (
	TabFall   SemesterTab = "fall"
	TabSpring SemesterTab = "spring"
	TabAll    SemesterTab = "all"
)

// TabOrder is the canonical ordering used to compute visible tabs.
var TabOrder = []SemesterTab{TabFall, TabSpring, TabAll}

// ParseSemesterTab reports whether raw names a known tab.
func ParseSemesterTab(raw string) (SemesterTab, bool) {
	switch SemesterTab(raw) {
	case TabFall, TabSpring, TabAll:
		return SemesterTab(raw), true
	default:
		return "", false
	}
}

type permitMode uint8

const (
	permitUnrestricted permitMode = iota
	permitRestricted
	permitDenied
)

// PermittedTerms is the set of concrete terms a viewer may see. The zero value is
// the unrestricted sentinel.
type PermittedTerms struct {
	mode   permitMode
	fall   bool
	spring bool
}

// UnrestrictedTerms passes every concrete-term check and exposes untermed items in "all".
func UnrestrictedTerms() PermittedTerms {
	return PermittedTerms{mode: permitUnrestricted}
}

// RestrictTo builds a restricted set from concrete terms; TermOther is ignored.
func RestrictTo(terms ...Term) PermittedTerms {
	p := PermittedTerms{mode: permitRestricted}
	for _, term := range terms {
		switch term {
		case TermFall:
			p.fall = true
		case TermSpring:
			p.spring = true
		}
	}
	return p
}

// DeniedTerms hides every term. Used when unknown plans fail closed.
func DeniedTerms() PermittedTerms {
	return PermittedTerms{mode: permitDenied}
}

// Unrestricted reports whether the viewer is the unrestricted sentinel.
func (p PermittedTerms) Unrestricted() bool {
	return p.mode == permitUnrestricted
}

// Denied reports whether nothing may be shown.
func (p PermittedTerms) Denied() bool {
	return p.mode == permitDenied
}

// Allows reports whether the concrete term passes for this viewer.
func (p PermittedTerms) Allows(term Term) bool {
	switch p.mode {
	case permitUnrestricted:
		return term == TermFall || term == TermSpring
	case permitDenied:
		return false
	}
	switch term {
	case TermFall:
		return p.fall
	case TermSpring:
		return p.spring
	default:
		return false
	}
}

// Concrete returns the granted concrete terms in fall, spring order.
func (p PermittedTerms) Concrete() []Term {
	terms := make([]Term, 0, 2)
	if p.Allows(TermFall) {
		terms = append(terms, TermFall)
	}
	if p.Allows(TermSpring) {
		terms = append(terms, TermSpring)
	}
	return terms
}

// Malformed reports a restricted set that grants no concrete term.
func (p PermittedTerms) Malformed() bool {
	return p.mode == permitRestricted && !p.fall && !p.spring
}
