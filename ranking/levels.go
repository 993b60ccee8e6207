package ranking

const (
	levelOneShare = 0.2
	levelTwoShare = 0.5
)

// LevelAt is the display level of position i in a volume-sorted list of n
// topics: the top 20% get level 1, the next 30% level 2, the rest level 3.
func LevelAt(i, n int) int {
	lv1 := int(float64(n) * levelOneShare)
	lv2 := int(float64(n) * levelTwoShare)
	switch {
	case i < lv1:
		return 1
	case i < lv2:
		return 2
	default:
		return 3
	}
}

// DisplayLevels assigns a level to every topic of a volume-sorted list.
// existing holds each topic's stored level; non-nil values are kept as is.
func DisplayLevels(existing []*int) []int {
	n := len(existing)
	out := make([]int, n)
	for i, lv := range existing {
		if lv != nil {
			out[i] = *lv
			continue
		}
		out[i] = LevelAt(i, n)
	}
	return out
}
