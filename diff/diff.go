// Package diff turns expression-like values into differential values,
// relative either to every sample on the plate or to the negative control
// samples only.
package diff

import (
	"fmt"
	"math"

	"github.com/carbocation/gctoo"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

const (
	// madFloor is the smallest MAD used as a denominator.
	madFloor = 0.1

	// madScale makes the MAD a consistent estimator of the standard
	// deviation under normality.
	madScale = 1.4826
)

// Method selects how differential values are computed.
type Method int

const (
	RobustZ Method = iota
	MedianNorm
)

func (m Method) String() string {
	switch m {
	case RobustZ:
		return "robust_z"
	case MedianNorm:
		return "median_norm"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts "robust_z" and "median_norm".
func ParseMethod(s string) (Method, error) {
	switch s {
	case "robust_z":
		return RobustZ, nil
	case "median_norm":
		return MedianNorm, nil
	}
	return 0, fmt.Errorf("possible diff methods: robust_z, median_norm; got %q", s)
}

type Options struct {
	// PlateControl computes medians over every sample. Otherwise only the
	// samples whose GroupField column metadata equals GroupValue are used.
	PlateControl bool
	GroupField   string
	GroupValue   string

	Method Method

	// Results are clipped to [Lower, Upper].
	Lower, Upper float64

	Logger gctoo.Logger
}

func DefaultOptions() Options {
	return Options{
		PlateControl: true,
		GroupField:   "pert_type",
		GroupValue:   "ctl_vehicle",
		Method:       RobustZ,
		Lower:        -10,
		Upper:        10,
	}
}

// Transform returns a container with the same metadata as g and differential
// data values.
func Transform(g *gctoo.GCToo, opts Options) (*gctoo.GCToo, error) {
	logger := gctoo.LoggerOrDiscard(opts.Logger)
	if opts.Lower > opts.Upper {
		return nil, fmt.Errorf("diff: lower threshold %v exceeds upper threshold %v", opts.Lower, opts.Upper)
	}

	var f func(values, control []float64) []float64
	switch opts.Method {
	case RobustZ:
		f = RobustZScore
	case MedianNorm:
		f = MedianNormalize
	default:
		return nil, fmt.Errorf("diff: unknown method %v", opts.Method)
	}

	data := g.Data()
	rows, cols := data.Shape()

	var controls []int
	if !opts.PlateControl {
		var err error
		if controls, err = controlSamples(g.ColMetadata(), opts.GroupField, opts.GroupValue); err != nil {
			return nil, err
		}
		logger.Printf("Using %d of %d samples with %s=%s as controls\n", len(controls), cols, opts.GroupField, opts.GroupValue)
	}

	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		row := data.Row(i)
		control := row
		if controls != nil {
			control = make([]float64, len(controls))
			for k, j := range controls {
				control[k] = row[j]
			}
		}
		out = append(out, clip(f(row, control), opts.Lower, opts.Upper)...)
	}

	diffData, err := gctoo.NewMatrix(data.Rows(), data.Cols(), out)
	if err != nil {
		return nil, err
	}
	return gctoo.New(diffData, g.RowMetadata(), g.ColMetadata(), gctoo.WithSource(g.Source), gctoo.WithVersion(g.Version))
}

// controlSamples returns the positions of the samples whose field equals
// value.
func controlSamples(colMeta *gctoo.MetaTable, field, value string) ([]int, error) {
	c, ok := colMeta.Column(field)
	if !ok {
		return nil, fmt.Errorf("diff: group field %q is not present in the column metadata %v", field, colMeta.Fields())
	}
	var out []int
	for j, v := range c.Values {
		if !v.IsNull() && v.String() == value {
			out = append(out, j)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("diff: group value %q is not present in the %s column", value, field)
	}
	return out, nil
}

// RobustZScore is (x - median) / (MAD * 1.4826), with the median and MAD
// taken from control and the MAD floored at 0.1. Results are rounded to four
// decimals. Missing values are ignored by the medians and stay missing.
func RobustZScore(values, control []float64) []float64 {
	m := median(control)
	devs := make([]float64, len(control))
	for i, v := range control {
		devs[i] = math.Abs(v - m)
	}
	mad := median(devs)
	if mad < madFloor {
		mad = madFloor
	}

	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-m, out)
	for i := range out {
		out[i] = math.RoundToEven(out[i]/(mad*madScale)*1e4) / 1e4
	}
	return out
}

// MedianNormalize subtracts the median of control.
func MedianNormalize(values, control []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-median(control), out)
	return out
}

// median skips missing values. It is NaN when nothing is left.
func median(values []float64) float64 {
	present := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	m, err := present.Median()
	if err != nil {
		return math.NaN()
	}
	return m
}

// clip bounds every non-missing value to [lower, upper] in place.
func clip(values []float64, lower, upper float64) []float64 {
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case v < lower:
			values[i] = lower
		case v > upper:
			values[i] = upper
		}
	}
	return values
}
