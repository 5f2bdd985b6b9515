// Package optimizer reorders a design's stitch list to shorten thread jumps,
// the non-stitching travel between consecutive stitches.
package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/closset/closset/engine-go/internal/design"
)

// groupKey buckets stitches that can run on one thread without a change.
type groupKey struct {
	Color string
	Type  design.StitchType
}

// Optimize returns a reordered copy of the stitch list. Stitches are grouped
// by (color, type) so each group runs on a single thread, then sorted within
// the group by the distance of their last point from the origin, a cheap
// locality proxy rather than a true tour. Groups are emitted in lexicographic
// key order so repeated runs produce identical output.
//
// The result is a pure permutation: points, color, type and style survive
// untouched. Each stitch gets a derived id recording its optimized position.
func Optimize(stitches []design.Stitch) []design.Stitch {
	if len(stitches) == 0 {
		return nil
	}

	groups := make(map[groupKey][]design.Stitch)
	for _, st := range stitches {
		key := groupKey{Color: st.Color, Type: st.Type}
		groups[key] = append(groups[key], st.Clone())
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Color != keys[j].Color {
			return keys[i].Color < keys[j].Color
		}
		return keys[i].Type < keys[j].Type
	})

	out := make([]design.Stitch, 0, len(stitches))
	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return anchorDistance(group[i]) < anchorDistance(group[j])
		})
		out = append(out, group...)
	}

	for i := range out {
		out[i].ID = fmt.Sprintf("%s.opt%03d", out[i].ID, i)
	}
	return out
}

// TravelDistance sums the jump distances between consecutive stitches, from
// each stitch's last point to the next stitch's first point. Stitches without
// points contribute nothing.
func TravelDistance(stitches []design.Stitch) float64 {
	total := 0.0
	havePrev := false
	var prev design.Stitch
	for _, st := range stitches {
		if len(st.Points) == 0 {
			continue
		}
		if havePrev {
			a := prev.Points[len(prev.Points)-1]
			total += a.Distance(st.Points[0])
		}
		prev = st
		havePrev = true
	}
	return total
}

// anchorDistance is the Euclidean distance of the stitch's last point from
// the origin.
func anchorDistance(st design.Stitch) float64 {
	if len(st.Points) == 0 {
		return math.Inf(1)
	}
	last := st.Points[len(st.Points)-1]
	return last.Length()
}
