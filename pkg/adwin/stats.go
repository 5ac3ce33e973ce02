package adwin

// varianceSummary is the triple (n, mu, s): a running sample count, mean,
// and sum of squared deviations from the mean. It is the unit of storage
// for every bucket slot and for the window aggregate.
type varianceSummary struct {
	n  float64
	mu float64
	s  float64
}

// fit incorporates one sample using Welford's single-pass update.
func (v *varianceSummary) fit(x float64) {
	v.n++
	delta := x - v.mu
	v.mu += delta / v.n
	v.s += delta * (x - v.mu)
}

// merge combines two variance summaries using the Chan/Welford parallel
// update. The result is identical, up to floating-point error, to fitting
// the concatenation of both summaries' sample sequences in either order.
func (v varianceSummary) merge(o varianceSummary) varianceSummary {
	if v.n == 0 {
		return o
	}
	if o.n == 0 {
		return v
	}
	n := v.n + o.n
	delta := o.mu - v.mu
	mu := v.mu + delta*o.n/n
	s := v.s + o.s + delta*delta*v.n*o.n/n
	return varianceSummary{n: n, mu: mu, s: s}
}

// variance returns the sample variance s/n, or 0 for an empty summary.
func (v varianceSummary) variance() float64 {
	if v.n > 0 {
		return v.s / v.n
	}
	return 0
}

// asMean projects a variance summary down to its (n, mu) mean summary.
func (v varianceSummary) asMean() meanSummary {
	return meanSummary{n: v.n, mu: v.mu}
}

// meanSummary is the pair (n, mu) used by the change detector to track the
// left and right partitions of a cut without carrying variance along.
type meanSummary struct {
	n  float64
	mu float64
}

// merge combines two mean summaries; order-independent up to float error.
func (m meanSummary) merge(o meanSummary) meanSummary {
	if m.n == 0 {
		return o
	}
	if o.n == 0 {
		return m
	}
	n := m.n + o.n
	delta := o.mu - m.mu
	mu := m.mu + delta*o.n/n
	return meanSummary{n: n, mu: mu}
}

// remove subtracts the contribution of v from m. ok is false when the
// resulting count drops below the 1e-9 numerical-degeneracy guard; the
// caller must terminate its scan in that case rather than trust the
// returned (zero) summary.
func (m meanSummary) remove(v varianceSummary) (out meanSummary, ok bool) {
	nOut := m.n - v.n
	if nOut < 1e-9 {
		return meanSummary{}, false
	}
	muOut := (m.mu*m.n - v.mu*v.n) / nOut
	return meanSummary{n: nOut, mu: muOut}, true
}
