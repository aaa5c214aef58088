package mathkernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveWeight(t *testing.T) {
	got := MoveWeight(2.0, 1.5)
	assert.InDelta(t, 0.9352899985984267, got, 1e-12)
}

func TestImbalanceZeroZero(t *testing.T) {
	assert.Equal(t, 0.0, Imbalance(0, 0))
}

func TestImbalanceKnownValue(t *testing.T) {
	assert.InDelta(t, 0.20871215252208003, Imbalance(3, 7), 1e-12)
}

func TestImbalanceSymmetry(t *testing.T) {
	assert.InDelta(t, -Imbalance(3, 7), Imbalance(7, 3), 1e-12)
}

func TestMaxEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
}

func TestMaxNonEmpty(t *testing.T) {
	assert.Equal(t, 9.0, Max([]float64{1, 9, 4}))
}

func TestSumEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
}

func TestMeanEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
}

func TestMeanAndStdDev(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, Mean(data), 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), StdDev(data), 1e-9)
}

func TestStdDevSingleElement(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5.0}))
}

func TestStdDevEmpty(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
}
