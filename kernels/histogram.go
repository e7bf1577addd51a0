package kernels

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/ops"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

type histogramConfig struct {
	binCount      int
	binCounts     []int
	edges         *tensors.Tensor
	edgesPerAxis  []*tensors.Tensor
	hasRange      bool
	rangeMin      float64
	rangeMax      float64
	rangesPerAxis [][2]float64
	weights       *tensors.Tensor
	density       bool
}

// HistogramOption configures Histogram, HistogramBinEdges, HistogramDD and
// Histogram2D.
type HistogramOption func(*histogramConfig)

// WithBinCount sets the number of equal-width bins, default 10.
func WithBinCount(n int) HistogramOption {
	return func(cfg *histogramConfig) { cfg.binCount = n }
}

// WithBinCounts sets a per-axis number of bins for HistogramDD and Histogram2D.
func WithBinCounts(ns ...int) HistogramOption {
	return func(cfg *histogramConfig) { cfg.binCounts = ns }
}

// WithBinEdges supplies explicit bin edges, a 1-D monotonically increasing tensor,
// overriding bin count and range.
func WithBinEdges(edges *tensors.Tensor) HistogramOption {
	return func(cfg *histogramConfig) { cfg.edges = edges }
}

// WithBinEdgesPerAxis supplies explicit per-axis bin edges for HistogramDD and
// Histogram2D.
func WithBinEdgesPerAxis(edges ...*tensors.Tensor) HistogramOption {
	return func(cfg *histogramConfig) { cfg.edgesPerAxis = edges }
}

// WithRange fixes the lower and upper edge of the binned interval instead of taking
// them from the data.
func WithRange(lo, hi float64) HistogramOption {
	return func(cfg *histogramConfig) {
		cfg.hasRange = true
		cfg.rangeMin, cfg.rangeMax = lo, hi
	}
}

// WithRangePerAxis fixes per-axis (lo, hi) intervals for HistogramDD and Histogram2D.
func WithRangePerAxis(ranges ...[2]float64) HistogramOption {
	return func(cfg *histogramConfig) { cfg.rangesPerAxis = ranges }
}

// WithWeights weighs every sample; must have as many elements as there are samples.
func WithWeights(weights *tensors.Tensor) HistogramOption {
	return func(cfg *histogramConfig) { cfg.weights = weights }
}

// WithDensity normalizes counts so the histogram integrates to 1 over the binned
// interval: each count is divided by its bin width and by the total weight.
func WithDensity() HistogramOption {
	return func(cfg *histogramConfig) { cfg.density = true }
}

func resolveHistogramConfig(options []HistogramOption) histogramConfig {
	cfg := histogramConfig{binCount: 10}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// HistogramBinEdges returns the bin edge vector Histogram would use: the explicit
// edges when given, otherwise binCount+1 evenly spaced boundaries over the requested
// range, defaulting to the sample minimum and maximum. A degenerate range (single
// value, or no samples and no range) is expanded by +-0.5. Edges keep a floating
// sample dtype and promote everything else to Float64.
func HistogramBinEdges(samples *tensors.Tensor, options ...HistogramOption) *tensors.Tensor {
	cfg := resolveHistogramConfig(options)
	return histogramBinEdges(samples, &cfg)
}

func histogramBinEdges(samples *tensors.Tensor, cfg *histogramConfig) *tensors.Tensor {
	if cfg.edges != nil {
		if cfg.edges.Rank() != 1 || cfg.edges.Size() == 0 {
			panic(errors.Wrapf(ErrValue, "bin edges must be 1-D and non-empty, got shape %s", cfg.edges.Shape()))
		}
		return cfg.edges
	}
	if cfg.binCount < 1 {
		panic(errors.Wrapf(ErrValue, "bin count must be at least 1, got %d", cfg.binCount))
	}
	var lo, hi float64
	switch {
	case cfg.hasRange:
		lo, hi = cfg.rangeMin, cfg.rangeMax
	case samples.Shape().IsZeroSize():
		lo, hi = 0, 1
	default:
		flat := ops.ConvertDType(ops.Reshape(samples, samples.Size()), dtypes.Float64)
		lo = tensors.ToScalar[float64](ops.ReduceMin(flat, 0, false))
		hi = tensors.ToScalar[float64](ops.ReduceMax(flat, 0, false))
	}
	if hi < lo {
		panic(errors.Wrapf(ErrValue, "histogram range max %v must not be below min %v", hi, lo))
	}
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}
	edgeDType := dtypes.Float64
	if samples.DType().IsFloat() {
		edgeDType = samples.DType()
	}
	return ops.Linspace(edgeDType, lo, hi, cfg.binCount+1, true)
}

// Histogram buckets the flattened samples into the bins defined by the edge vector
// and accumulates per-bin counts, or the per-sample weights when given. Bins are
// half-open on the right except the final bin, which also includes samples exactly
// equal to the last edge; samples outside the edges are ignored. With WithDensity
// the counts are rescaled to integrate to 1. Returns the counts and the edges.
func Histogram(samples *tensors.Tensor, options ...HistogramOption) (counts, edges *tensors.Tensor) {
	cfg := resolveHistogramConfig(options)
	flat := ops.Reshape(samples, samples.Size())
	weights := resolveWeights(&cfg, samples.Size())
	edges = histogramBinEdges(samples, &cfg)
	numEdges := edges.Size()
	klog.V(2).Infof("Histogram: samples=%d, bins=%d, density=%v", flat.Size(), numEdges-1, cfg.density)

	binIndices := assignBins(flat, edges, false)
	buffer := ops.Zeros(shapes.Make(weights.DType(), numEdges))
	accumulated := ops.ScatterAdd1D(buffer, binIndices, weights, ops.BoundsDrop)
	// Slot 0 holds the below-range samples; drop it.
	counts = ops.SliceAxis(accumulated, 0, 1, numEdges)

	if cfg.density {
		counts64 := ops.ConvertDType(counts, dtypes.Float64)
		edges64 := ops.ConvertDType(edges, dtypes.Float64)
		widths := ops.Sub(ops.SliceAxis(edges64, 0, 1, numEdges), ops.SliceAxis(edges64, 0, 0, numEdges-1))
		total := ops.ReduceAllSum(counts64)
		counts = ops.Div(ops.Div(counts64, widths), total)
	}
	return counts, edges
}

// assignBins returns, per sample, the scatter slot: searchsorted side=right over the
// edges, so slot 0 means below range and slot len(edges) above. Samples exactly on
// the last edge belong to the last bin: with decrement false they are reassigned to
// slot len(edges)-1 (one reserved below-range slot), with decrement true their index
// is decremented by one (HistogramDD's +2 slot encoding).
func assignBins(flat, edges *tensors.Tensor, decrement bool) *tensors.Tensor {
	numEdges := edges.Size()
	indices := SearchSorted(edges, flat, SideRight, MethodScan)
	common := arithmeticDType(ops.PromoteDTypes(flat.DType(), edges.DType()))
	lastEdge := ops.ConvertDType(ops.SliceAxis(edges, 0, numEdges-1, numEdges), common)
	onLastEdge := ops.Equal(ops.ConvertDType(flat, common), lastEdge)
	var reassigned *tensors.Tensor
	if decrement {
		reassigned = ops.SubScalar(indices, 1)
	} else {
		reassigned = ops.Scalar(indices.DType(), float64(numEdges-1))
	}
	return ops.Where(onLastEdge, reassigned, indices)
}

func resolveWeights(cfg *histogramConfig, numSamples int) *tensors.Tensor {
	if cfg.weights == nil {
		return ops.Ones(shapes.Make(dtypes.Int64, numSamples))
	}
	if cfg.weights.Size() != numSamples {
		panic(errors.Wrapf(ErrValue, "weights have %d elements for %d samples",
			cfg.weights.Size(), numSamples))
	}
	// 16-bit float weights accumulate in Float32, which also becomes the counts dtype.
	weights := ops.ConvertDType(cfg.weights, arithmeticDType(cfg.weights.DType()))
	return ops.Reshape(weights, numSamples)
}

// HistogramDD buckets N samples of D coordinates each — sample shape (N, D) — into a
// D-dimensional grid of bins. Each coordinate column is binned independently, the
// per-axis bin indices are combined into one flat index with mixed-radix encoding
// (RavelMultiIndex, clipped), counts accumulate in a flat fixed-size buffer, and the
// reserved below/above-range slot of every axis is trimmed from the reshaped result.
// Returns the D-dimensional counts and the per-axis edges.
func HistogramDD(sample *tensors.Tensor, options ...HistogramOption) (counts *tensors.Tensor, edgesPerAxis []*tensors.Tensor) {
	cfg := resolveHistogramConfig(options)
	if sample.Rank() != 2 {
		panic(errors.Wrapf(ErrValue, "HistogramDD requires samples of shape (num_samples, num_dims), got %s", sample.Shape()))
	}
	numSamples := sample.Shape().Dimensions[0]
	numDims := sample.Shape().Dimensions[1]
	weights := resolveWeights(&cfg, numSamples)
	klog.V(2).Infof("HistogramDD: samples=%d, dims=%d", numSamples, numDims)

	binIndicesByDim := make([]*tensors.Tensor, numDims)
	edgesPerAxis = make([]*tensors.Tensor, numDims)
	slotsByDim := make([]int, numDims)
	totalSlots := 1
	for dim := 0; dim < numDims; dim++ {
		column := ops.Reshape(ops.SliceAxis(sample, 1, dim, dim+1), numSamples)
		dimCfg := cfg.forDim(dim, numDims)
		edges := histogramBinEdges(column, &dimCfg)
		edgesPerAxis[dim] = edges
		binIndicesByDim[dim] = assignBins(column, edges, true)
		// One bin per edge interval plus a below-range and an above-range slot.
		slotsByDim[dim] = edges.Size() + 1
		totalSlots *= slotsByDim[dim]
	}

	flatIndices := RavelMultiIndex(binIndicesByDim, slotsByDim, ops.BoundsClip)
	flatCounts := ops.Bincount(flatIndices, weights, totalSlots)
	counts = ops.Reshape(flatCounts, slotsByDim...)
	for dim := 0; dim < numDims; dim++ {
		counts = ops.SliceAxis(counts, dim, 1, slotsByDim[dim]-1)
	}

	if cfg.density {
		counts64 := ops.ConvertDType(counts, dtypes.Float64)
		total := ops.ReduceAllSum(counts64)
		counts = ops.Div(counts64, total)
		for dim := 0; dim < numDims; dim++ {
			edges64 := ops.ConvertDType(edgesPerAxis[dim], dtypes.Float64)
			n := edges64.Size()
			widths := ops.Sub(ops.SliceAxis(edges64, 0, 1, n), ops.SliceAxis(edges64, 0, 0, n-1))
			broadcastDims := make([]int, numDims)
			for ii := range broadcastDims {
				broadcastDims[ii] = 1
			}
			broadcastDims[dim] = n - 1
			counts = ops.Div(counts, ops.Reshape(widths, broadcastDims...))
		}
	}
	return counts, edgesPerAxis
}

// forDim projects the multi-dimensional configuration onto one coordinate axis.
func (cfg *histogramConfig) forDim(dim, numDims int) histogramConfig {
	dimCfg := histogramConfig{binCount: cfg.binCount}
	if cfg.binCounts != nil {
		if len(cfg.binCounts) != numDims {
			panic(errors.Wrapf(ErrShape, "got %d per-axis bin counts for %d dimensions", len(cfg.binCounts), numDims))
		}
		dimCfg.binCount = cfg.binCounts[dim]
	}
	if cfg.edgesPerAxis != nil {
		if len(cfg.edgesPerAxis) != numDims {
			panic(errors.Wrapf(ErrShape, "got %d per-axis edge vectors for %d dimensions", len(cfg.edgesPerAxis), numDims))
		}
		dimCfg.edges = cfg.edgesPerAxis[dim]
	}
	if cfg.edges != nil {
		dimCfg.edges = cfg.edges
	}
	switch {
	case cfg.rangesPerAxis != nil:
		if len(cfg.rangesPerAxis) != numDims {
			panic(errors.Wrapf(ErrShape, "got %d per-axis ranges for %d dimensions", len(cfg.rangesPerAxis), numDims))
		}
		dimCfg.hasRange = true
		dimCfg.rangeMin, dimCfg.rangeMax = cfg.rangesPerAxis[dim][0], cfg.rangesPerAxis[dim][1]
	case cfg.hasRange:
		dimCfg.hasRange = true
		dimCfg.rangeMin, dimCfg.rangeMax = cfg.rangeMin, cfg.rangeMax
	}
	return dimCfg
}

// Histogram2D is HistogramDD over two coordinate vectors x and y of equal length.
// Returns the 2-D counts and the edges of each axis.
func Histogram2D(x, y *tensors.Tensor, options ...HistogramOption) (counts, xEdges, yEdges *tensors.Tensor) {
	if x.Rank() != 1 || y.Rank() != 1 || x.Size() != y.Size() {
		panic(errors.Wrapf(ErrValue, "Histogram2D requires two 1-D tensors of equal length, got %s and %s",
			x.Shape(), y.Shape()))
	}
	common := ops.PromoteDTypes(x.DType(), y.DType())
	n := x.Size()
	sample := ops.Concatenate(1,
		ops.Reshape(ops.ConvertDType(x, common), n, 1),
		ops.Reshape(ops.ConvertDType(y, common), n, 1))
	counts, edgesPerAxis := HistogramDD(sample, options...)
	return counts, edgesPerAxis[0], edgesPerAxis[1]
}

// RavelMultiIndex combines per-axis index tensors into flat indices for an array of
// the given dimensions, mixed-radix: the last axis varies fastest. All index tensors
// must share one shape. Out-of-range indices are clamped with ops.BoundsClip,
// wrapped with ops.BoundsWrap, or rejected (wrapping ErrValue) with ops.BoundsRaise.
func RavelMultiIndex(multiIndex []*tensors.Tensor, dims []int, mode ops.IndexBoundsMode) *tensors.Tensor {
	if len(multiIndex) == 0 || len(multiIndex) != len(dims) {
		panic(errors.Wrapf(ErrShape, "RavelMultiIndex needs one index tensor per dimension, got %d for %d dims",
			len(multiIndex), len(dims)))
	}
	first := multiIndex[0].Shape()
	for _, idx := range multiIndex[1:] {
		if !idx.Shape().EqualDimensions(first) {
			panic(errors.Wrapf(ErrShape, "RavelMultiIndex index tensors disagree in shape: %s vs %s",
				first, idx.Shape()))
		}
	}
	strides := make([]int, len(dims))
	stride := 1
	for axis := len(dims) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= dims[axis]
	}
	flat := make([]int, first.Size())
	for axis, idx := range multiIndex {
		dim := dims[axis]
		for ii, v := range ops.IntsFromTensor(idx) {
			switch mode {
			case ops.BoundsClip:
				v = min(max(v, 0), dim-1)
			case ops.BoundsWrap:
				v = v % dim
				if v < 0 {
					v += dim
				}
			case ops.BoundsRaise:
				if v < 0 || v >= dim {
					panic(errors.Wrapf(ErrValue, "index %d out of bounds for axis %d with %d slots", v, axis, dim))
				}
			default:
				panic(errors.Wrapf(ErrUnsupportedMode, "RavelMultiIndex does not support bounds mode %s", mode))
			}
			flat[ii] += v * strides[axis]
		}
	}
	return ops.IntsToTensor(ops.IndexDTypeFor(stride), flat)
}
