package analysis

import (
	"strings"

	"github.com/sportmed/trainingmonitor/internal/patient"
	"github.com/sportmed/trainingmonitor/internal/rest"
)

// Keywords restricting the list to active/inactive patients, in English
// and German. A term matches a keyword when the keyword contains the term,
// so prefixes like "activ" work too.
var (
	activeKeywords   = []string{"active", "open", "aktiv", "offen"}
	inactiveKeywords = []string{"inactive", "closed", "inaktive", "abgeschlossen", "beendet", "abgelaufen"}
)

type activeState int

const (
	stateNotDefined activeState = iota
	stateActive
	stateInactive
)

// FilterPatients narrows a patient list by a free-text query. The query
// splits on ',' and ';' into whitespace-stripped terms; every term filters
// the result of the previous one. A term matching an active/inactive
// keyword filters by the active flag, unless it also occurs in a name or
// study group of the current result set, in which case the field match
// wins. All other terms match case-insensitively as substrings against
// birthday, treatment start/end (display date form), the first study group
// name and the concatenated first+last name in both orderings; matches per
// field are unioned. The final result is deduplicated preserving first
// occurrence.
func FilterPatients(patients []patient.Summary, query string) []patient.Summary {
	terms := splitTerms(query)

	filtered := patients
	for _, term := range terms {
		state := activeStateFor(term)
		if state == stateActive && !termInNameOrStudyGroup(filtered, term) {
			filtered = filterByActive(filtered, true)
			continue
		}
		if state == stateInactive && !termInNameOrStudyGroup(filtered, term) {
			filtered = filterByActive(filtered, false)
			continue
		}

		lowered := strings.ToLower(term)
		var next []patient.Summary
		next = append(next, filterBy(filtered, func(p patient.Summary) bool {
			return strings.Contains(displayDate(p.Birthday), term)
		})...)
		next = append(next, filterBy(filtered, func(p patient.Summary) bool {
			return strings.Contains(displayDate(p.TreatmentStarted), term)
		})...)
		next = append(next, filterBy(filtered, func(p patient.Summary) bool {
			return p.TreatmentFinished != nil && strings.Contains(displayDate(*p.TreatmentFinished), term)
		})...)
		next = append(next, filterBy(filtered, func(p patient.Summary) bool {
			return studyGroupContains(p, lowered)
		})...)
		next = append(next, filterBy(filtered, func(p patient.Summary) bool {
			return nameContains(p, lowered)
		})...)
		filtered = next
	}

	return dedupe(filtered)
}

func splitTerms(query string) []string {
	raw := strings.FieldsFunc(query, func(r rune) bool {
		return r == ',' || r == ';'
	})
	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		term = removeWhitespace(term)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func activeStateFor(term string) activeState {
	lowered := strings.ToLower(term)
	for _, keyword := range activeKeywords {
		if strings.Contains(keyword, lowered) {
			return stateActive
		}
	}
	for _, keyword := range inactiveKeywords {
		if strings.Contains(keyword, lowered) {
			return stateInactive
		}
	}
	return stateNotDefined
}

func termInNameOrStudyGroup(patients []patient.Summary, term string) bool {
	lowered := strings.ToLower(term)
	for _, p := range patients {
		if studyGroupContains(p, lowered) || nameContains(p, lowered) {
			return true
		}
	}
	return false
}

func studyGroupContains(p patient.Summary, loweredTerm string) bool {
	if len(p.StudyGroups) == 0 {
		return false
	}
	group := removeWhitespace(strings.ToLower(p.StudyGroups[0]))
	return strings.Contains(group, loweredTerm)
}

func nameContains(p patient.Summary, loweredTerm string) bool {
	firstLast := strings.ToLower(p.FirstName + p.LastName)
	lastFirst := strings.ToLower(p.LastName + p.FirstName)
	return strings.Contains(firstLast, loweredTerm) || strings.Contains(lastFirst, loweredTerm)
}

func filterBy(patients []patient.Summary, keep func(patient.Summary) bool) []patient.Summary {
	var result []patient.Summary
	for _, p := range patients {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}

func filterByActive(patients []patient.Summary, active bool) []patient.Summary {
	return filterBy(patients, func(p patient.Summary) bool {
		return p.Active == active
	})
}

func dedupe(patients []patient.Summary) []patient.Summary {
	seen := make(map[string]struct{}, len(patients))
	result := make([]patient.Summary, 0, len(patients))
	for _, p := range patients {
		key := p.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}
	return result
}

func displayDate(t rest.Time) string {
	return t.Format(rest.DisplayDayLayout)
}

func removeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
