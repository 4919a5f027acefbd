package waypoints

// CondenseMinGap drops matches until no two neighbours are closer than
// minGap metres along the track. Of a close pair the later one goes.
func CondenseMinGap(xs []Match, minGap float64) []Match {
	out := make([]Match, 0, len(xs))
	for _, m := range xs {
		if len(out) > 0 && m.Distance-out[len(out)-1].Distance < minGap {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CondenseMax drops matches until at most n remain, each time removing one
// of the closest neighbouring pair. The first and last matches are kept
// where possible; otherwise the member of the pair with the nearer other
// neighbour goes.
func CondenseMax(xs []Match, n int) []Match {
	xs = append([]Match(nil), xs...)
	if n < 1 {
		return xs[:0]
	}
	for len(xs) > n {
		if len(xs) == 1 {
			return xs[:0]
		}
		minI := 0
		minD := xs[1].Distance - xs[0].Distance
		for i := 1; i < len(xs)-1; i++ {
			if d := xs[i+1].Distance - xs[i].Distance; d < minD {
				minI, minD = i, d
			}
		}
		switch {
		case minI == 0:
			xs = deleteMatch(xs, minI+1)
		case minI == len(xs)-2:
			xs = deleteMatch(xs, minI)
		case xs[minI].Distance-xs[minI-1].Distance < xs[minI+2].Distance-xs[minI+1].Distance:
			xs = deleteMatch(xs, minI)
		default:
			xs = deleteMatch(xs, minI+1)
		}
	}
	return xs
}

func deleteMatch(xs []Match, i int) []Match {
	return append(xs[:i], xs[i+1:]...)
}
