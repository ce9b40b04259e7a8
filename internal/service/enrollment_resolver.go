package service

import (
	"slices"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// PlanPolicy decides how unrecognized enrollment plans resolve.
type PlanPolicy struct {
	// FailClosed hides all term content for unrecognized plans instead of granting everything.
	FailClosed bool
}

// ResolvePermittedTerms maps a plan to the terms it unlocks. Unset and unrecognized plans
// resolve to the unrestricted sentinel.
func ResolvePermittedTerms(plan models.EnrollmentPlan) models.PermittedTerms {
	return PlanPolicy{}.Resolve(plan)
}

// Resolve maps a plan to permitted terms under the policy.
func (p PlanPolicy) Resolve(plan models.EnrollmentPlan) models.PermittedTerms {
	switch plan {
	case models.PlanFullYear:
		return models.RestrictTo(models.TermFall, models.TermSpring)
	case models.PlanFallOnly:
		return models.RestrictTo(models.TermFall)
	case models.PlanSpringOnly:
		return models.RestrictTo(models.TermSpring)
	case models.PlanUnset:
		return models.UnrestrictedTerms()
	}
	if parsed, ok := models.ParseEnrollmentPlan(string(plan)); ok {
		return p.Resolve(parsed)
	}
	if p.FailClosed {
		return models.DeniedTerms()
	}
	return models.UnrestrictedTerms()
}

// PlanForCourse returns the plan of the user's enrollment matching courseID, or unset.
func PlanForCourse(user *models.User, courseID string) models.EnrollmentPlan {
	if user == nil {
		return models.PlanUnset
	}
	enrollment, ok := user.EnrollmentFor(courseID)
	if !ok {
		return models.PlanUnset
	}
	return enrollment.Plan
}

// VisibleTabs lists the tabs a viewer may open, in fall, spring, all order. The aggregate
// tab is visible once any concrete term is granted.
func VisibleTabs(permitted models.PermittedTerms) []models.SemesterTab {
	if permitted.Unrestricted() || permitted.Malformed() {
		return slices.Clone(models.TabOrder)
	}
	tabs := make([]models.SemesterTab, 0, len(models.TabOrder))
	for _, term := range permitted.Concrete() {
		tabs = append(tabs, models.SemesterTab(term))
	}
	if len(tabs) > 0 {
		tabs = append(tabs, models.TabAll)
	}
	return tabs
}

// ResolveActiveTab keeps current when it is visible and otherwise falls back to the
// first visible tab. It returns "" when nothing is visible.
func ResolveActiveTab(current models.SemesterTab, visible []models.SemesterTab) models.SemesterTab {
	if slices.Contains(visible, current) {
		return current
	}
	if len(visible) == 0 {
		return ""
	}
	return visible[0]
}

// TabState tracks the active tab of one content view. The active tab is always visible
// after any transition.
type TabState struct {
	permitted models.PermittedTerms
	visible   []models.SemesterTab
	active    models.SemesterTab
}

// NewTabState starts on the first visible tab.
func NewTabState(permitted models.PermittedTerms) *TabState {
	s := &TabState{}
	s.SetPermitted(permitted)
	return s
}

// SetPermitted recomputes visibility and reassigns the active tab if it became hidden.
func (s *TabState) SetPermitted(permitted models.PermittedTerms) {
	s.permitted = permitted
	s.visible = VisibleTabs(permitted)
	s.active = ResolveActiveTab(s.active, s.visible)
}

// Select switches to tab when it is visible and reports whether it did.
func (s *TabState) Select(tab models.SemesterTab) bool {
	if !slices.Contains(s.visible, tab) {
		return false
	}
	s.active = tab
	return true
}

// Active returns the active tab.
func (s *TabState) Active() models.SemesterTab {
	return s.active
}

// Visible returns a copy of the visible tabs.
func (s *TabState) Visible() []models.SemesterTab {
	return slices.Clone(s.visible)
}

// Permitted returns the permitted terms the state was computed from.
func (s *TabState) Permitted() models.PermittedTerms {
	return s.permitted
}
