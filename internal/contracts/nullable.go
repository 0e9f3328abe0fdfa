package contracts

// Optional metrics and fundamentals are *float64: nil means "no data".
// Missing values never travel as NaN, so they cannot silently poison a
// factor through arithmetic; blending treats nil as a zero contribution.

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 {
	return &v
}

// OrZero converts a nullable value into its blending contribution:
// missing data contributes no signal, not a penalty.
func OrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
