package internship

import (
	"sort"
	"strings"
	"time"

	"github.com/NathJo212/Overd-OSE-sub001/core"
)

// DefaultOrdering lists the newest objects first.
var DefaultOrdering = []core.Ordering{{Field: "created_at", Ascending: false}}

type comparator func(i, j int) int

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// sortBy stable-sorts n elements by orderings, ties broken by the id comparator.
func sortBy(n int, swap func(i, j int), fields map[string]comparator, byID comparator, orderings []core.Ordering) error {
	if len(orderings) == 0 {
		orderings = DefaultOrdering
	}
	cmps := make([]func(i, j int) int, 0, len(orderings)+1)
	for _, ord := range orderings {
		cmp, ok := fields[ord.Field]
		if !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "ordering", Error: "unknown field " + ord.Field})
		}
		if ord.Ascending {
			cmps = append(cmps, cmp)
		} else {
			cmps = append(cmps, func(i, j int) int { return -cmp(i, j) })
		}
	}
	cmps = append(cmps, byID)

	sort.Stable(&lessSwapper{n: n, swap: swap, less: func(i, j int) bool {
		for _, cmp := range cmps {
			if c := cmp(i, j); c != 0 {
				return c < 0
			}
		}
		return false
	}})
	return nil
}

type lessSwapper struct {
	n    int
	swap func(i, j int)
	less func(i, j int) bool
}

func (ls *lessSwapper) Len() int           { return ls.n }
func (ls *lessSwapper) Less(i, j int) bool { return ls.less(i, j) }
func (ls *lessSwapper) Swap(i, j int)      { ls.swap(i, j) }

// FilterOffers returns the offers matching every set field of filter.
// Search is a case-insensitive match on the title or the company.
func FilterOffers(offers []Offer, filter OfferFilter) []Offer {
	filter.Clean()
	res := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(o.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(o.Company), filter.Search) {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, o.Status) {
			continue
		}
		res = append(res, o)
	}
	return res
}

func hasStatus(statuses []OfferStatus, st OfferStatus) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// SortOffers sorts offers in place; allowed fields: id, title, company, status, academic_year, created_at, updated_at.
func SortOffers(offers []Offer, orderings []core.Ordering) error {
	fields := map[string]comparator{
		"id":            func(i, j int) int { return compareInts(offers[i].ID, offers[j].ID) },
		"title":         func(i, j int) int { return compareStrings(offers[i].Title, offers[j].Title) },
		"company":       func(i, j int) int { return compareStrings(offers[i].Company, offers[j].Company) },
		"status":        func(i, j int) int { return compareStrings(string(offers[i].Status), string(offers[j].Status)) },
		"academic_year": func(i, j int) int { return compareInts(offers[i].AcademicYear, offers[j].AcademicYear) },
		"created_at":    func(i, j int) int { return compareTimes(offers[i].CreatedAt, offers[j].CreatedAt) },
		"updated_at":    func(i, j int) int { return compareTimes(offers[i].UpdatedAt, offers[j].UpdatedAt) },
	}
	return sortBy(len(offers), func(i, j int) { offers[i], offers[j] = offers[j], offers[i] }, fields, fields["id"], orderings)
}

// FilterAgreements returns the agreements matching every set field of filter.
// Search is a case-insensitive match on the student's name or email.
func FilterAgreements(agreements []Agreement, filter AgreementFilter) []Agreement {
	filter.Clean()
	res := make([]Agreement, 0, len(agreements))
	for _, a := range agreements {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(a.StudentName), filter.Search) &&
			!strings.Contains(strings.ToLower(a.StudentEmail), filter.Search) {
			continue
		}
		switch filter.Teacher {
		case FilterAssigned:
			if !a.Teacher.IsAssigned() {
				continue
			}
		case FilterUnassigned:
			if a.Teacher.IsAssigned() {
				continue
			}
		}
		if filter.TeacherID != 0 {
			if id, ok := a.Teacher.TeacherID(); !ok || id != filter.TeacherID {
				continue
			}
		}
		res = append(res, a)
	}
	return res
}

// SortAgreements sorts agreements in place; allowed fields: id, offer_id, student_name, academic_year, created_at, updated_at.
func SortAgreements(agreements []Agreement, orderings []core.Ordering) error {
	fields := map[string]comparator{
		"id":            func(i, j int) int { return compareInts(agreements[i].ID, agreements[j].ID) },
		"offer_id":      func(i, j int) int { return compareInts(agreements[i].OfferID, agreements[j].OfferID) },
		"student_name":  func(i, j int) int { return compareStrings(agreements[i].StudentName, agreements[j].StudentName) },
		"academic_year": func(i, j int) int { return compareInts(agreements[i].AcademicYear, agreements[j].AcademicYear) },
		"created_at":    func(i, j int) int { return compareTimes(agreements[i].CreatedAt, agreements[j].CreatedAt) },
		"updated_at":    func(i, j int) int { return compareTimes(agreements[i].UpdatedAt, agreements[j].UpdatedAt) },
	}
	return sortBy(len(agreements), func(i, j int) { agreements[i], agreements[j] = agreements[j], agreements[i] }, fields, fields["id"], orderings)
}
