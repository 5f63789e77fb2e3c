package opc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Counts are reported per litre of sampled air; the archive convention wants
// them per cubic centimetre. 1 litre = 1000 cm3.
const cm3PerLitre = 1000.0

// ChannelBounds holds the diameter interval of each measurement channel, in
// the same unit as the input column headers (micrometres).
type ChannelBounds struct {
	Lower []float64
	Upper []float64
}

// Bounds derives the channel intervals from the size-bin column headers.
// Each header is the lower bound of its channel; the upper bound is the next
// channel's lower bound, and the last channel is capped at maxDiameter.
func Bounds(bins []string, maxDiameter float64) (*ChannelBounds, error) {
	if len(bins) == 0 {
		return nil, fmt.Errorf("no size-bin columns")
	}
	lower := make([]float64, len(bins))
	for i, bin := range bins {
		v, err := strconv.ParseFloat(strings.TrimSpace(bin), 64)
		if err != nil {
			return nil, fmt.Errorf("size-bin column %q is not a diameter: %w", bin, err)
		}
		lower[i] = v
	}
	for i := 1; i < len(lower); i++ {
		if lower[i] <= lower[i-1] {
			return nil, fmt.Errorf("size-bin bounds not ascending: %g follows %g", lower[i], lower[i-1])
		}
	}
	upper := make([]float64, len(lower))
	copy(upper, lower[1:])
	upper[len(upper)-1] = maxDiameter
	return &ChannelBounds{Lower: lower, Upper: upper}, nil
}

// ConcentrationMatrix builds the time × channel concentration array for one
// day group, converting counts per litre to counts per cubic centimetre.
// Missing readings stay NaN.
func ConcentrationMatrix(g DayGroup) *sparse.DenseArray {
	nt, nc := len(g.Table.Rows), len(g.Table.Bins)
	m := sparse.ZerosDense(nt, nc)
	for i, row := range g.Table.Rows {
		scaled := make([]float64, len(row.Counts))
		copy(scaled, row.Counts)
		floats.Scale(1/cm3PerLitre, scaled)
		copy(m.Elements[i*nc:(i+1)*nc], scaled)
	}
	return m
}

// BoundMatrices replicates the channel bounds across every time step, giving
// the two time × channel limit arrays the product stores.
func BoundMatrices(b *ChannelBounds, nt int) (lower, upper *sparse.DenseArray) {
	nc := len(b.Lower)
	lower = sparse.ZerosDense(nt, nc)
	upper = sparse.ZerosDense(nt, nc)
	for i := 0; i < nt; i++ {
		copy(lower.Elements[i*nc:(i+1)*nc], b.Lower)
		copy(upper.Elements[i*nc:(i+1)*nc], b.Upper)
	}
	return lower, upper
}
