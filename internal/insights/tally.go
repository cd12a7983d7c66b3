package insights

import "sort"

// tally counts keys while remembering the order each key was first seen.
type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(key string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// top returns up to n keys by descending count; equal counts keep first-seen order.
func (t *tally) top(n int) []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
