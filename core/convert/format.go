package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a converted value back into its data-section text
// form. Arrays become bracketed literals, nil becomes the empty string
// and non-finite floats render as the nan/inf literals the numeric
// decoder accepts. encoding/json cannot serve here: it rejects NaN and
// the infinities outright.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		return FormatArray(t)
	case string:
		return t
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	default:
		return fmt.Sprint(t)
	}
}

// FormatArray renders array elements as a bracketed literal: strings
// quoted, nil elements as null, non-finite floats as nan/inf.
func FormatArray(elems []any) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, el := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch t := el.(type) {
		case nil:
			sb.WriteString("null")
		case string:
			sb.WriteString(strconv.Quote(t))
		case []any:
			sb.WriteString(FormatArray(t))
		case float32:
			sb.WriteString(formatFloat(float64(t), 32))
		case float64:
			sb.WriteString(formatFloat(t, 64))
		default:
			fmt.Fprint(&sb, t)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
