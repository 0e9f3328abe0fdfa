package scoring

import "math"

// ZScores standardizes a column cross-sectionally. The three-way branch
// is load-bearing:
//   - no non-null values: every entry stays null
//   - zero (or NaN) population standard deviation: every entry becomes 0
//   - otherwise: (value - mean) / std, nulls staying null
//
// Nulls surviving standardization contribute zero signal at the blend
// stage, so missing data is neutral, never a penalty.
func ZScores(column []*float64) []*float64 {
	clean := make([]float64, 0, len(column))
	for _, v := range column {
		if v != nil {
			clean = append(clean, *v)
		}
	}

	out := make([]*float64, len(column))
	if len(clean) == 0 {
		return out
	}

	mean := 0.0
	for _, v := range clean {
		mean += v
	}
	mean /= float64(len(clean))

	ss := 0.0
	for _, v := range clean {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(clean)))

	if std == 0 || math.IsNaN(std) {
		zero := 0.0
		for i, v := range column {
			if v != nil {
				z := zero
				out[i] = &z
			}
		}
		return out
	}

	for i, v := range column {
		if v != nil {
			z := (*v - mean) / std
			out[i] = &z
		}
	}
	return out
}
