package translator

import "sort"

// Order returns the translation order: module names sorted in byte order,
// with entryModule, when present, moved to the end.
func Order(names []string, entryModule string) []string {
	ordered := append([]string(nil), names...)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a == entryModule || b == entryModule {
			return b == entryModule && a != entryModule
		}
		return a < b
	})

	return ordered
}
