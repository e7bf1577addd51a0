package ops

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/staticshape/tensors"
	"github.com/gomlx/staticshape/types/shapes"
)

// This file implements the elementwise primitives: binary arithmetic, comparisons and
// Where (select). All of them broadcast their operands with numpy rules -- align
// shapes to the right, dimensions of 1 stretch.

type binaryOpType int

const (
	binaryAdd binaryOpType = iota
	binarySub
	binaryMul
	binaryDiv
	binaryMin
	binaryMax
)

var binaryOpNames = [...]string{"Add", "Sub", "Mul", "Div", "Min", "Max"}

// Add returns lhs+rhs elementwise, with broadcasting. Operands must share a dtype.
func Add(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binaryAdd, lhs, rhs) }

// Sub returns lhs-rhs elementwise, with broadcasting. Operands must share a dtype.
func Sub(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binarySub, lhs, rhs) }

// Mul returns lhs*rhs elementwise, with broadcasting. Operands must share a dtype.
func Mul(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binaryMul, lhs, rhs) }

// Div returns lhs/rhs elementwise, with broadcasting. Operands must share a dtype.
// Integer division truncates, like Go's.
func Div(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binaryDiv, lhs, rhs) }

// Min returns the elementwise minimum of lhs and rhs, with broadcasting.
func Min(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binaryMin, lhs, rhs) }

// Max returns the elementwise maximum of lhs and rhs, with broadcasting.
func Max(lhs, rhs *tensors.Tensor) *tensors.Tensor { return execBinary(binaryMax, lhs, rhs) }

func execBinary(op binaryOpType, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	opName := binaryOpNames[op]
	assertSameDType(opName, lhs, rhs)
	assertPODNumeric(opName, lhs.DType())
	outShape, lhsShape, rhsShape := broadcastShapes(opName, lhs.Shape(), rhs.Shape())
	output := tensors.FromShape(outShape)
	switch lhs.DType() {
	case dtypes.Int8:
		execBinaryGeneric[int8](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int16:
		execBinaryGeneric[int16](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int32:
		execBinaryGeneric[int32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int64:
		execBinaryGeneric[int64](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint8:
		execBinaryGeneric[uint8](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint16:
		execBinaryGeneric[uint16](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint32:
		execBinaryGeneric[uint32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint64:
		execBinaryGeneric[uint64](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Float32:
		execBinaryGeneric[float32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Float64:
		execBinaryGeneric[float64](op, lhs, rhs, output, lhsShape, rhsShape)
	default:
		exceptions.Panicf("unsupported dtype %s for %s() operation", lhs.DType(), opName)
	}
	return output
}

func execBinaryGeneric[T PODNumericConstraints](op binaryOpType, lhs, rhs, output *tensors.Tensor, lhsShape, rhsShape shapes.Shape) {
	var opFn func(a, b T) T
	switch op {
	case binaryAdd:
		opFn = func(a, b T) T { return a + b }
	case binarySub:
		opFn = func(a, b T) T { return a - b }
	case binaryMul:
		opFn = func(a, b T) T { return a * b }
	case binaryDiv:
		opFn = func(a, b T) T { return a / b }
	case binaryMin:
		opFn = func(a, b T) T { return min(a, b) }
	case binaryMax:
		opFn = func(a, b T) T { return max(a, b) }
	}
	tensors.ConstFlatData(lhs, func(lhsFlat []T) {
		tensors.ConstFlatData(rhs, func(rhsFlat []T) {
			tensors.MutableFlatData(output, func(outFlat []T) {
				outShape := output.Shape()
				if lhsShape.Equal(outShape) && rhsShape.EqualDimensions(outShape) {
					// Fast path, no broadcasting.
					for ii := range outFlat {
						outFlat[ii] = opFn(lhsFlat[ii], rhsFlat[ii])
					}
					return
				}
				lhsIter := newBroadcastIterator(lhsShape, outShape)
				rhsIter := newBroadcastIterator(rhsShape, outShape)
				for ii := range outFlat {
					outFlat[ii] = opFn(lhsFlat[lhsIter.Next()], rhsFlat[rhsIter.Next()])
				}
			})
		})
	})
}

type compareOpType int

const (
	compareLess compareOpType = iota
	compareLessOrEqual
	compareGreater
	compareGreaterOrEqual
	compareEqual
	compareNotEqual
)

var compareOpNames = [...]string{"LessThan", "LessOrEqual", "GreaterThan", "GreaterOrEqual", "Equal", "NotEqual"}

// LessThan returns lhs < rhs elementwise as a Bool tensor, with broadcasting.
func LessThan(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareLess, lhs, rhs)
}

// LessOrEqual returns lhs <= rhs elementwise as a Bool tensor, with broadcasting.
func LessOrEqual(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareLessOrEqual, lhs, rhs)
}

// GreaterThan returns lhs > rhs elementwise as a Bool tensor, with broadcasting.
func GreaterThan(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareGreater, lhs, rhs)
}

// GreaterOrEqual returns lhs >= rhs elementwise as a Bool tensor, with broadcasting.
func GreaterOrEqual(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareGreaterOrEqual, lhs, rhs)
}

// Equal returns lhs == rhs elementwise as a Bool tensor, with broadcasting.
func Equal(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareEqual, lhs, rhs)
}

// NotEqual returns lhs != rhs elementwise as a Bool tensor, with broadcasting.
func NotEqual(lhs, rhs *tensors.Tensor) *tensors.Tensor {
	return execCompare(compareNotEqual, lhs, rhs)
}

func execCompare(op compareOpType, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	opName := compareOpNames[op]
	assertSameDType(opName, lhs, rhs)
	assertPODNumeric(opName, lhs.DType())
	outShape, lhsShape, rhsShape := broadcastShapes(opName, lhs.Shape(), rhs.Shape())
	outShape.DType = dtypes.Bool
	output := tensors.FromShape(outShape)
	switch lhs.DType() {
	case dtypes.Int8:
		execCompareGeneric[int8](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int16:
		execCompareGeneric[int16](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int32:
		execCompareGeneric[int32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Int64:
		execCompareGeneric[int64](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint8:
		execCompareGeneric[uint8](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint16:
		execCompareGeneric[uint16](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint32:
		execCompareGeneric[uint32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Uint64:
		execCompareGeneric[uint64](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Float32:
		execCompareGeneric[float32](op, lhs, rhs, output, lhsShape, rhsShape)
	case dtypes.Float64:
		execCompareGeneric[float64](op, lhs, rhs, output, lhsShape, rhsShape)
	default:
		exceptions.Panicf("unsupported dtype %s for %s() operation", lhs.DType(), opName)
	}
	return output
}

func execCompareGeneric[T PODNumericConstraints](op compareOpType, lhs, rhs, output *tensors.Tensor, lhsShape, rhsShape shapes.Shape) {
	var opFn func(a, b T) bool
	switch op {
	case compareLess:
		opFn = func(a, b T) bool { return a < b }
	case compareLessOrEqual:
		opFn = func(a, b T) bool { return a <= b }
	case compareGreater:
		opFn = func(a, b T) bool { return a > b }
	case compareGreaterOrEqual:
		opFn = func(a, b T) bool { return a >= b }
	case compareEqual:
		opFn = func(a, b T) bool { return a == b }
	case compareNotEqual:
		opFn = func(a, b T) bool { return a != b }
	}
	tensors.ConstFlatData(lhs, func(lhsFlat []T) {
		tensors.ConstFlatData(rhs, func(rhsFlat []T) {
			tensors.MutableFlatData(output, func(outFlat []bool) {
				outShape := output.Shape()
				lhsIter := newBroadcastIterator(lhsShape, outShape)
				rhsIter := newBroadcastIterator(rhsShape, outShape)
				for ii := range outFlat {
					outFlat[ii] = opFn(lhsFlat[lhsIter.Next()], rhsFlat[rhsIter.Next()])
				}
			})
		})
	})
}

// Where returns a tensor with elements taken from onTrue where cond is true, and from
// onFalse otherwise. cond must be a Bool tensor; onTrue and onFalse must share a
// dtype. All three broadcast together.
func Where(cond, onTrue, onFalse *tensors.Tensor) *tensors.Tensor {
	if cond.DType() != dtypes.Bool {
		exceptions.Panicf("ops.Where: condition must be a Bool tensor, got %s", cond.Shape())
	}
	assertSameDType("Where", onTrue, onFalse)
	branchesShape, onTrueShape, onFalseShape := broadcastShapes("Where", onTrue.Shape(), onFalse.Shape())
	outShape, condShape, _ := broadcastShapes("Where", cond.Shape(), branchesShape)
	outShape.DType = onTrue.DType()
	onTrueShape = expandToRank(onTrueShape, outShape.Rank())
	onFalseShape = expandToRank(onFalseShape, outShape.Rank())

	output := tensors.FromShape(outShape)
	elemSize := int(outShape.DType.Memory())
	condIter := newBroadcastIterator(condShape, outShape)
	onTrueIter := newBroadcastIterator(onTrueShape, outShape)
	onFalseIter := newBroadcastIterator(onFalseShape, outShape)
	tensors.ConstFlatData(cond, func(condFlat []bool) {
		onTrue.ConstBytes(func(onTrueData []byte) {
			onFalse.ConstBytes(func(onFalseData []byte) {
				output.MutableBytes(func(outData []byte) {
					for ii := 0; ii < outShape.Size(); ii++ {
						condIdx, onTrueIdx, onFalseIdx := condIter.Next(), onTrueIter.Next(), onFalseIter.Next()
						var src []byte
						if condFlat[condIdx] {
							src = onTrueData[onTrueIdx*elemSize : (onTrueIdx+1)*elemSize]
						} else {
							src = onFalseData[onFalseIdx*elemSize : (onFalseIdx+1)*elemSize]
						}
						copy(outData[ii*elemSize:(ii+1)*elemSize], src)
					}
				})
			})
		})
	})
	return output
}

// Scalar returns a scalar tensor with the given value converted to the given dtype.
func Scalar(dtype dtypes.DType, value float64) *tensors.Tensor {
	return ConvertDType(tensors.FromScalar(value), dtype)
}

// AddScalar converts scalar to a constant with x's dtype and returns x+scalar.
func AddScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	return Add(x, Scalar(x.DType(), scalar))
}

// SubScalar converts scalar to a constant with x's dtype and returns x-scalar.
func SubScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	return Sub(x, Scalar(x.DType(), scalar))
}

// MulScalar converts scalar to a constant with x's dtype and returns x*scalar.
func MulScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	return Mul(x, Scalar(x.DType(), scalar))
}

// DivScalar converts scalar to a constant with x's dtype and returns x/scalar.
func DivScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	if scalar == 0 {
		exceptions.Panicf("division by zero in ops.DivScalar")
	}
	return Div(x, Scalar(x.DType(), scalar))
}

// MinScalar converts scalar to a constant with x's dtype and returns elementwise min(x, scalar).
func MinScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	return Min(x, Scalar(x.DType(), scalar))
}

// MaxScalar converts scalar to a constant with x's dtype and returns elementwise max(x, scalar).
func MaxScalar(x *tensors.Tensor, scalar float64) *tensors.Tensor {
	return Max(x, Scalar(x.DType(), scalar))
}
