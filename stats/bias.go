package stats

import "sort"

// biasScores measures how selective each source (reactor or replier) is
// towards its targets, relative to how much each target writes.
//
//	focus       = count / sourceTotal
//	lift        = focus / messageShare(target)
//	selectivity = focus * lift
//	biasIndex   = Σ focus² (Herfindahl index, 1/k..1 over k targets)
func biasScores(matrix *Matrix, shares *Ratios) ([]PairScore, []BiasSummary) {
	all := []PairScore{}
	summaries := []BiasSummary{}

	matrix.Range(func(source string, targets *Counts) bool {
		total := sum(targets)
		if total == 0 {
			return true
		}

		pairs := make([]PairScore, 0, targets.Len())
		hhi := 0.0
		targets.Range(func(target string, count int) bool {
			focus := float64(count) / float64(total)
			hhi += focus * focus

			share, _ := shares.Get(target)
			if share == 0 {
				share = shareFloor
			}
			lift := focus / share
			pairs = append(pairs, PairScore{
				Source:             source,
				Target:             target,
				Count:              count,
				Focus:              focus,
				Lift:               lift,
				Selectivity:        focus * lift,
				TargetMessageShare: share,
			})
			return true
		})
		all = append(all, pairs...)

		sortBySelectivity(pairs)
		if len(pairs) > topTargetsLimit {
			pairs = pairs[:topTargetsLimit]
		}
		summaries = append(summaries, BiasSummary{
			Source:     source,
			BiasIndex:  hhi,
			Total:      total,
			TopTargets: pairs,
		})
		return true
	})

	sortBySelectivity(all)
	return all, summaries
}

func sortBySelectivity(pairs []PairScore) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Selectivity > pairs[j].Selectivity
	})
}
