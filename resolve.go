package verger

import "sort"

// overlay computes (base ∪ add) \ remove over string identifier sets.
// Remove wins when an identifier appears in both add and remove of the
// same override: contradictory input is resolved deterministically in
// favor of denial, never rejected. The result is sorted and deduplicated.
func overlay(base, add, remove []string) []string {
	set := make(map[string]struct{}, len(base)+len(add))
	for _, v := range base {
		set[v] = struct{}{}
	}
	for _, v := range add {
		set[v] = struct{}{}
	}
	for _, v := range remove {
		delete(set, v)
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
