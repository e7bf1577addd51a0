package tensors

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

var (
	typeFloat16  = reflect.TypeOf(float16.Float16(0))
	typeBFloat16 = reflect.TypeOf(bfloat16.BFloat16(0))
)

// MaxSizeForString is the largest tensor size (number of elements) whose contents
// String() will actually print -- larger tensors print only the shape and memory usage.
var MaxSizeForString = 500

// String converts to string, if not too large. It uses t.Summary(precision=4).
func (t *Tensor) String() string {
	if t.Size() > MaxSizeForString {
		return fmt.Sprintf("%s (%s): (... too large, %d values ...)",
			t.shape, humanize.Bytes(uint64(t.Memory())), t.Size())
	}
	return t.Summary(4)
}

// Summary returns a multi-line summary of the Tensor's content.
// Inspired by numpy output.
func (t *Tensor) Summary(precision int) string {
	if t.Shape().IsZeroSize() {
		return t.Shape().String()
	}

	// Easy string building.
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }

	// Print value with appropriate formatting:
	wValue := func(v reflect.Value) {
		if v.Type() == typeFloat16 {
			w("%.*g", precision, v.Interface().(float16.Float16).Float32())
			return
		} else if v.Type() == typeBFloat16 {
			w("%.*g", precision, v.Interface().(bfloat16.BFloat16).Float32())
			return
		}
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			w("%d", v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			w("%d", v.Uint())
		case reflect.Bool:
			w("%v", v.Bool())
		default:
			w("%.*g", precision, v.Interface())
		}
	}

	dims := t.Shape().Dimensions
	t.ConstFlatData(func(flat any) {
		values := reflect.ValueOf(flat)

		// Print Go type equivalent.
		for _, dim := range dims {
			w("[%d]", dim)
		}
		w("%s", values.Type().Elem())
		if len(dims) == 0 {
			// Scalar value.
			w("(")
			wValue(values.Index(0))
			w(")")
			return
		}

		var printElements func(index, indent int, currentShape []int)
		printElements = func(index, indent int, currentShape []int) {
			if len(currentShape) == 1 {
				// One row of data:
				w("{")
				if currentShape[0] > 6 {
					// Apply ellipsis for long rows.
					for i := 0; i < 3; i++ {
						if i > 0 {
							w(", ")
						}
						wValue(values.Index(index + i))
					}
					w(", ..., ")
					for i := currentShape[0] - 3; i < currentShape[0]; i++ {
						if i > currentShape[0]-3 {
							w(", ")
						}
						wValue(values.Index(index + i))
					}
				} else {
					for i := 0; i < currentShape[0]; i++ {
						if i > 0 {
							w(", ")
						}
						wValue(values.Index(index + i))
					}
				}
				w("}")
				return
			}

			// Outer axes:
			stride := 1
			for _, dim := range currentShape[1:] {
				stride *= dim
			}

			w("{")
			if indent == -1 {
				if currentShape[0] > 1 {
					// Break the line before outputting data if we are using more than one row.
					w("\n ")
				}
				indent = 1
			}
			indentStr := strings.Repeat(" ", indent)
			for ii := 0; ii < currentShape[0]; ii++ {
				if ii > 0 {
					w(",\n%s", indentStr)
				}
				printElements(index+ii*stride, indent+1, currentShape[1:])
			}
			w("}")
		}
		printElements(0, -1, dims)
	})
	return buf.String()
}
