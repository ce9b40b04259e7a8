package service

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// SortRule orders two items of the same kind like a cmp function.
type SortRule[T models.TimedItem] func(a, b T) int

// Buckets holds the term-partitioned view of a content list. Slices are never nil.
type Buckets[T models.TimedItem] struct {
	Fall   []T `json:"fall"`
	Spring []T `json:"spring"`
	All    []T `json:"all"`
}

// Tab returns the bucket backing a tab.
func (b Buckets[T]) Tab(tab models.SemesterTab) []T {
	switch tab {
	case models.TabFall:
		return b.Fall
	case models.TabSpring:
		return b.Spring
	case models.TabAll:
		return b.All
	default:
		return []T{}
	}
}

func emptyBuckets[T models.TimedItem]() Buckets[T] {
	return Buckets[T]{Fall: []T{}, Spring: []T{}, All: []T{}}
}

// Partition splits timestamped items into fall and spring buckets and builds the
// aggregate bucket. Unrestricted viewers get every item in the aggregate bucket,
// including untimed ones; restricted viewers get only the union of their permitted
// buckets. A restricted set with no concrete term is handled as unrestricted and a
// denied set yields empty buckets. The input slice is never modified.
func Partition[T models.TimedItem](items []T, permitted models.PermittedTerms, rule SortRule[T]) Buckets[T] {
	out := emptyBuckets[T]()
	if permitted.Denied() {
		return out
	}
	if rule == nil {
		rule = ChronologicalDescending[T]()
	}
	if permitted.Malformed() {
		permitted = models.UnrestrictedTerms()
	}

	for _, item := range items {
		term, ok := SemesterOf(item.ItemTime())
		if !ok || !permitted.Allows(term) {
			continue
		}
		switch term {
		case models.TermFall:
			out.Fall = append(out.Fall, item)
		case models.TermSpring:
			out.Spring = append(out.Spring, item)
		}
	}

	if permitted.Unrestricted() {
		out.All = append(out.All, items...)
	} else {
		out.All = append(append(out.All, out.Fall...), out.Spring...)
	}

	slices.SortStableFunc(out.Fall, rule)
	slices.SortStableFunc(out.Spring, rule)
	slices.SortStableFunc(out.All, rule)
	return out
}

// PartitionPlaylists builds buckets for courses whose videos come from one playlist per
// term. The playlist decides the term, so upload dates only affect ordering. The
// aggregate bucket keeps the first occurrence of a video listed in both playlists.
func PartitionPlaylists[T models.TimedItem](fall, spring []T, permitted models.PermittedTerms, rule SortRule[T]) Buckets[T] {
	out := emptyBuckets[T]()
	if permitted.Denied() {
		return out
	}
	if rule == nil {
		rule = ChronologicalDescending[T]()
	}
	if permitted.Malformed() {
		permitted = models.UnrestrictedTerms()
	}

	if permitted.Allows(models.TermFall) {
		out.Fall = append(out.Fall, fall...)
	}
	if permitted.Allows(models.TermSpring) {
		out.Spring = append(out.Spring, spring...)
	}

	seen := make(map[string]struct{}, len(out.Fall)+len(out.Spring))
	combined := append(slices.Clone(out.Fall), out.Spring...)
	for _, item := range combined {
		if _, dup := seen[item.ItemID()]; dup && item.ItemID() != "" {
			continue
		}
		seen[item.ItemID()] = struct{}{}
		out.All = append(out.All, item)
	}

	slices.SortStableFunc(out.Fall, rule)
	slices.SortStableFunc(out.Spring, rule)
	slices.SortStableFunc(out.All, rule)
	return out
}

// ChronologicalDescending orders newest first. Untimed items sort after timed ones.
func ChronologicalDescending[T models.TimedItem]() SortRule[T] {
	return func(a, b T) int {
		return compareTimeDesc(a.ItemTime(), b.ItemTime())
	}
}

var classNumberPattern = regexp.MustCompile(`(?i)class\s+(\d+)`)

// ClassPriority puts items named "class" first, ordered by their class number
// descending (missing numbers count as 0), then everything else newest first.
func ClassPriority[T models.TimedItem]() SortRule[T] {
	return func(a, b T) int {
		aClass, aNum := classKey(a.ItemName())
		bClass, bNum := classKey(b.ItemName())
		switch {
		case aClass && bClass:
			return compareIntDesc(aNum, bNum)
		case aClass:
			return -1
		case bClass:
			return 1
		default:
			return compareTimeDesc(a.ItemTime(), b.ItemTime())
		}
	}
}

func classKey(name string) (bool, int) {
	if !strings.Contains(strings.ToLower(name), "class") {
		return false, 0
	}
	match := classNumberPattern.FindStringSubmatch(name)
	if match == nil {
		return true, 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return true, 0
	}
	return true, n
}

func compareIntDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func compareTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}

// DedupeCourses collapses courses sharing a (name, year) pair, keeping the first one.
func DedupeCourses(courses []models.Course) []models.Course {
	type key struct{ name, year string }
	seen := make(map[key]struct{}, len(courses))
	out := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		k := key{course.Name, course.Year}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, course)
	}
	return out
}
