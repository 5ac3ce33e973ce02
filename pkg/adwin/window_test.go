package adwin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mergeAllSlots reconstructs a variance summary over every live slot, used
// to check invariant 2 of spec.md section 8 independently of how the
// aggregate is maintained internally.
func mergeAllSlots(w *window) varianceSummary {
	var acc varianceSummary
	for i := 0; i < w.slotCount(); i++ {
		acc = acc.merge(w.slotAt(i))
	}
	return acc
}

func TestWindow_FirstSample(t *testing.T) {
	w := newWindow()
	w.fit(3.5)

	require.Equal(t, 1.0, w.aggregate.n)
	assert.Equal(t, 3.5, w.aggregate.mu)
}

func TestWindow_AggregateMatchesMergeOfAllSlots(t *testing.T) {
	w := newWindow()
	for i := 1; i <= 500; i++ {
		w.fit(float64(i))
	}

	reconstructed := mergeAllSlots(w)
	assert.InDelta(t, w.aggregate.n, reconstructed.n, 1e-6)
	assert.InDelta(t, w.aggregate.mu, reconstructed.mu, 1e-6)
}

func TestWindow_RowCapacityInvariant(t *testing.T) {
	w := newWindow()
	for i := 1; i <= 1000; i++ {
		w.fit(float64(i))

		for row := 0; row < w.rowCount(); row++ {
			cap := math.Pow(2, float64(row))
			for col := 0; col < slotsPerRow; col++ {
				slot := w.rows[row][col]
				if slot.n == 0 {
					continue
				}
				if row == 0 && col == 0 {
					// the write slot may transiently hold {0,1} samples
					assert.LessOrEqual(t, slot.n, 1.0)
					continue
				}
				assert.LessOrEqual(t, slot.n, cap,
					"row %d col %d has n=%v > cap %v after %d samples", row, col, slot.n, cap, i)
			}
		}
	}
}

func TestWindow_RowsGrowOnlyOnDemand(t *testing.T) {
	w := newWindow()
	require.Equal(t, 1, w.rowCount())

	// Fewer than slotsPerRow*2 samples should not need row 2.
	for i := 0; i < slotsPerRow; i++ {
		w.fit(float64(i))
	}
	assert.LessOrEqual(t, w.rowCount(), 2)
}

func TestWindow_RepeatedSampleNeverPromotesWrongValue(t *testing.T) {
	w := newWindow()
	for i := 0; i < 300; i++ {
		w.fit(7)
	}
	assert.InDelta(t, 7, w.aggregate.mu, 1e-9)
	assert.InDelta(t, 0, w.aggregate.variance(), 1e-9)
}

func TestWindow_PruneAtDropsOlderSlotsAndRebuildsAggregate(t *testing.T) {
	w := newWindow()
	for i := 1; i <= 200; i++ {
		w.fit(float64(i))
	}

	before := mergeAllSlots(w)
	require.Greater(t, before.n, 0.0)

	dropped := w.pruneAt(1)
	assert.Greater(t, dropped, 0.0)

	for i := 2; i < w.slotCount(); i++ {
		assert.Equal(t, 0.0, w.slotAt(i).n, "slot %d should have been cleared", i)
	}

	reconstructed := mergeAllSlots(w)
	assert.InDelta(t, w.aggregate.n, reconstructed.n, 1e-9)
	assert.InDelta(t, w.aggregate.mu, reconstructed.mu, 1e-9)
	assert.InDelta(t, before.n, w.aggregate.n+dropped, 1e-6)
}
