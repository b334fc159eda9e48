package retriever

import (
	"sort"

	"github.com/avuppal/driveRAG/internal/rag/index"
)

const unranked = 1 << 30

type fusedCandidate struct {
	hit       index.Hit
	score     float64
	listCount int
	// 1-based rank per input list, unranked when absent
	ranks []int
}

// fuseRRF merges ranked lists with reciprocal rank fusion: each item's fused
// score is the sum of 1/(k+rank) over every list it appears in, rank 1-based.
// Ties break on presence in more lists, then on earlier rank in the earlier
// list, then on chunk id. Output is fully deterministic for a given input.
func fuseRRF(lists [][]index.Hit, k int) []index.Hit {
	if k < 1 {
		k = 1
	}

	byId := make(map[string]*fusedCandidate)
	var order []*fusedCandidate

	for listIdx, list := range lists {
		for i, hit := range list {
			rank := i + 1
			cand, ok := byId[hit.ChunkID]
			if !ok {
				cand = &fusedCandidate{hit: hit, ranks: make([]int, len(lists))}
				for j := range cand.ranks {
					cand.ranks[j] = unranked
				}
				byId[hit.ChunkID] = cand
				order = append(order, cand)
			}
			cand.score += 1.0 / float64(k+rank)
			cand.listCount++
			if rank < cand.ranks[listIdx] {
				cand.ranks[listIdx] = rank
			}
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := order[a], order[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.listCount != cb.listCount {
			return ca.listCount > cb.listCount
		}
		for l := range ca.ranks {
			if ca.ranks[l] != cb.ranks[l] {
				return ca.ranks[l] < cb.ranks[l]
			}
		}
		return ca.hit.ChunkID < cb.hit.ChunkID
	})

	fused := make([]index.Hit, 0, len(order))
	for _, cand := range order {
		hit := cand.hit
		hit.Score = cand.score
		fused = append(fused, hit)
	}
	return fused
}
