package dispatcher

import (
	"liftsim/src/elev"
	"liftsim/src/types"
)

// collectRequests lists floors with somebody waiting, ascending by id.
func collectRequests(floors []*elev.Floor) []int {
	var requests []int
	for _, floor := range floors {
		if floor.HasRequest() {
			requests = append(requests, floor.ID)
		}
	}
	return requests
}

// onTheWay keeps the requests an elevator can serve on its way to target
// without overshooting it.
func onTheWay(requests []int, dir types.Direction, target int) []int {
	kept := requests[:0]
	for _, floor := range requests {
		switch {
		case dir == types.DirUp && floor <= target:
			kept = append(kept, floor)
		case dir == types.DirDown && floor >= target:
			kept = append(kept, floor)
		}
	}
	return kept
}
