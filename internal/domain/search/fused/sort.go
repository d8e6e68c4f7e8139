package fused

import "sort"

// Sort orders results by FinalScore descending; ties break by RRFScore
// descending, then by item identifier ascending so a fixed input always
// produces the same order.
func Sort(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].RRFScore != results[j].RRFScore {
			return results[i].RRFScore > results[j].RRFScore
		}
		return results[i].ID() < results[j].ID()
	})
}
