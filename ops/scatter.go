package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// ScatterSet1D returns operand with operand[indices[i]] = updates[i] for every i.
// operand and updates must be 1-D and share a dtype; indices must be a 1-D integer
// tensor with the same dimension as updates. When several indices collide the update
// with the highest i wins. Out-of-bounds indices follow mode; with BoundsDrop the
// update is discarded.
func ScatterSet1D(operand, indices, updates *tensors.Tensor, mode IndexBoundsMode) *tensors.Tensor {
	assertScatterArgs("ScatterSet1D", operand, indices, updates)
	dim := operand.Shape().Dimensions[0]
	idxValues := IntsFromTensor(indices)
	output := operand.Clone()
	if len(idxValues) == 0 {
		return output
	}
	elemSize := int(operand.DType().Memory())
	updates.ConstBytes(func(updData []byte) {
		output.MutableBytes(func(outData []byte) {
			for ii, idx := range idxValues {
				dstIdx, keep := resolveIndex("ScatterSet1D", idx, dim, mode)
				if !keep {
					continue
				}
				copy(outData[dstIdx*elemSize:(dstIdx+1)*elemSize], updData[ii*elemSize:(ii+1)*elemSize])
			}
		})
	})
	return output
}

// ScatterAdd1D returns operand with operand[indices[i]] += updates[i] for every i.
// Colliding indices accumulate. Same shape and dtype requirements as ScatterSet1D.
func ScatterAdd1D(operand, indices, updates *tensors.Tensor, mode IndexBoundsMode) *tensors.Tensor {
	assertScatterArgs("ScatterAdd1D", operand, indices, updates)
	assertPODNumeric("ScatterAdd1D", operand.DType())
	dim := operand.Shape().Dimensions[0]
	idxValues := IntsFromTensor(indices)
	output := operand.Clone()
	if len(idxValues) == 0 {
		return output
	}
	switch operand.DType() {
	case dtypes.Int8:
		scatterAddGeneric[int8](output, idxValues, updates, dim, mode)
	case dtypes.Int16:
		scatterAddGeneric[int16](output, idxValues, updates, dim, mode)
	case dtypes.Int32:
		scatterAddGeneric[int32](output, idxValues, updates, dim, mode)
	case dtypes.Int64:
		scatterAddGeneric[int64](output, idxValues, updates, dim, mode)
	case dtypes.Uint8:
		scatterAddGeneric[uint8](output, idxValues, updates, dim, mode)
	case dtypes.Uint16:
		scatterAddGeneric[uint16](output, idxValues, updates, dim, mode)
	case dtypes.Uint32:
		scatterAddGeneric[uint32](output, idxValues, updates, dim, mode)
	case dtypes.Uint64:
		scatterAddGeneric[uint64](output, idxValues, updates, dim, mode)
	case dtypes.Float32:
		scatterAddGeneric[float32](output, idxValues, updates, dim, mode)
	case dtypes.Float64:
		scatterAddGeneric[float64](output, idxValues, updates, dim, mode)
	}
	return output
}

func scatterAddGeneric[T PODNumericConstraints](output *tensors.Tensor, idxValues []int, updates *tensors.Tensor, dim int, mode IndexBoundsMode) {
	tensors.ConstFlatData(updates, func(updFlat []T) {
		tensors.MutableFlatData(output, func(outFlat []T) {
			for ii, idx := range idxValues {
				dstIdx, keep := resolveIndex("ScatterAdd1D", idx, dim, mode)
				if !keep {
					continue
				}
				outFlat[dstIdx] += updFlat[ii]
			}
		})
	})
}

func assertScatterArgs(opName string, operand, indices, updates *tensors.Tensor) {
	if operand.Rank() != 1 || indices.Rank() != 1 || updates.Rank() != 1 {
		exceptions.Panicf("ops.%s: operand, indices and updates must all be 1-D, got %s, %s and %s",
			opName, operand.Shape(), indices.Shape(), updates.Shape())
	}
	if !indices.DType().IsInt() {
		exceptions.Panicf("ops.%s: indices must be an integer tensor, got %s", opName, indices.Shape())
	}
	if operand.DType() != updates.DType() {
		exceptions.Panicf("ops.%s: operand and updates dtypes must match, got %s and %s",
			opName, operand.DType(), updates.DType())
	}
	if indices.Size() != updates.Size() {
		exceptions.Panicf("ops.%s: indices and updates must have the same dimension, got %s and %s",
			opName, indices.Shape(), updates.Shape())
	}
}

// Bincount counts occurrences of each value in a 1-D integer tensor: output[v] is the
// number of elements of x equal to v, or the sum of their weights when weights is not
// nil. The output has dimension max(minLength, max(x)+1). Negative values panic.
//
// With nil weights the output dtype is the dtype of x; otherwise it is the weights
// dtype.
func Bincount(x, weights *tensors.Tensor, minLength int) *tensors.Tensor {
	if x.Rank() != 1 {
		exceptions.Panicf("ops.Bincount: x must be 1-D, got shape %s", x.Shape())
	}
	if !x.DType().IsInt() {
		exceptions.Panicf("ops.Bincount: x must be an integer tensor, got %s", x.Shape())
	}
	if weights != nil && weights.Size() != x.Size() {
		exceptions.Panicf("ops.Bincount: weights must have the same dimension as x, got %s and %s",
			weights.Shape(), x.Shape())
	}
	values := IntsFromTensor(x)
	length := minLength
	for _, v := range values {
		if v < 0 {
			exceptions.Panicf("ops.Bincount: negative value %d", v)
		}
		if v+1 > length {
			length = v + 1
		}
	}
	outDType := x.DType()
	if weights != nil {
		outDType = weights.DType()
	}
	counts := tensors.FromShape(shapes.Make(outDType, length))
	indices := IntsToTensor(IndexDTypeFor(length), values)
	var updates *tensors.Tensor
	if weights != nil {
		updates = weights
	} else {
		updates = Ones(shapes.Make(outDType, len(values)))
	}
	return ScatterAdd1D(counts, indices, updates, BoundsRaise)
}
