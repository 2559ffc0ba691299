package domain

import "strings"

// Predicate reports whether a transaction passes one filter criterion
type Predicate func(PaymentTransaction) bool

// MatchSearch matches when the lowercased transaction id contains the
// lowercased term. An empty term matches everything.
func MatchSearch(term string) Predicate {
	needle := strings.ToLower(term)
	return func(t PaymentTransaction) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(t.ID), needle)
	}
}

// MatchStatus matches on exact status equality
func MatchStatus(status string) Predicate {
	return func(t PaymentTransaction) bool {
		return status == "" || t.Status == status
	}
}

// MatchSchool matches on case-insensitive equality of the school name
func MatchSchool(school string) Predicate {
	return func(t PaymentTransaction) bool {
		return school == "" || strings.EqualFold(t.SchoolInfo.Name, school)
	}
}

// Predicates returns the criteria as a list of predicates
func (c FilterCriteria) Predicates() []Predicate {
	return []Predicate{
		MatchSearch(c.SearchTerm),
		MatchStatus(c.Status),
		MatchSchool(c.School),
	}
}

// IsZero reports whether no criterion is set
func (c FilterCriteria) IsZero() bool {
	return c.SearchTerm == "" && c.Status == "" && c.School == ""
}

// ApplyFilter returns the items passing every predicate, in their original
// order. The input slice is never modified.
func ApplyFilter(items []PaymentTransaction, criteria FilterCriteria) []PaymentTransaction {
	return FilterAll(items, criteria.Predicates()...)
}

// FilterAll keeps the items that pass all predicates
func FilterAll(items []PaymentTransaction, predicates ...Predicate) []PaymentTransaction {
	filtered := make([]PaymentTransaction, 0, len(items))
	for _, item := range items {
		if matchesAll(item, predicates) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchesAll(t PaymentTransaction, predicates []Predicate) bool {
	for _, p := range predicates {
		if !p(t) {
			return false
		}
	}
	return true
}

// SchoolOptions returns the distinct school names of items in first-seen
// order. It only reflects what is loaded, so for admins it covers the
// current page alone.
func SchoolOptions(items []PaymentTransaction) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0)
	for _, item := range items {
		name := item.SchoolInfo.Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
