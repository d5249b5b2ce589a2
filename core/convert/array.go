package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/stellarkit/ecsv/core/errors"
	"github.com/stellarkit/ecsv/core/schema"
)

// element is one decoded entry of an array-valued field.
type element struct {
	null bool
	text string
}

// convertArray decodes each row's single text token into a nested
// sequence of subtype-typed values. Missing is tracked both per row (the
// whole sequence absent) and per element (a null inside a present
// sequence); either promotes the column to nullable.
func convertArray(d schema.ColumnDescriptor, tokens []string, opts Options) (*Column, error) {
	et := d.Element.Type
	lb := array.NewListBuilder(opts.mem(), arrowType(et))
	defer lb.Release()
	vb := lb.ValueBuilder()

	typeDesc := et.String() + " array"
	nullable := false
	for _, tok := range tokens {
		if tok == opts.Missing {
			lb.AppendNull()
			nullable = true
			continue
		}
		elems, err := decodeElements(et, tok)
		if err != nil {
			return nil, errors.NewConversion(d.Name, tok, typeDesc, err)
		}
		lb.Append(true)
		for _, el := range elems {
			if el.null {
				vb.AppendNull()
				nullable = true
				continue
			}
			if err := appendToken(vb, et, el.text); err != nil {
				return nil, errors.NewConversion(d.Name, el.text, et.String(), err)
			}
		}
	}
	return &Column{Name: d.Name, Data: lb.NewArray(), Unit: d.Unit, Nullable: nullable}, nil
}

// decodeElements splits one array literal into elements of the subtype.
func decodeElements(et schema.PrimitiveType, token string) ([]element, error) {
	switch et {
	case schema.TypeString:
		return decodeStringElements(token)
	case schema.TypeBool:
		return decodeBoolElements(token)
	default:
		return decodeNumericElements(token)
	}
}

// decodeStringElements decodes a JSON string array.
func decodeStringElements(token string) ([]element, error) {
	var vals []*string
	if err := json.Unmarshal([]byte(token), &vals); err != nil {
		return nil, err
	}
	out := make([]element, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = element{null: true}
		} else {
			out[i] = element{text: *v}
		}
	}
	return out, nil
}

// decodeBoolElements first attempts strict boolean-literal decoding. If
// that fails it decodes a string array and coerces every token through
// the case-insensitive {t,true,1 / f,false,0} vocabulary; any other
// token is a fatal conversion error.
func decodeBoolElements(token string) ([]element, error) {
	var strict []*bool
	if err := json.Unmarshal([]byte(token), &strict); err == nil {
		out := make([]element, len(strict))
		for i, v := range strict {
			switch {
			case v == nil:
				out[i] = element{null: true}
			case *v:
				out[i] = element{text: "true"}
			default:
				out[i] = element{text: "false"}
			}
		}
		return out, nil
	}

	elems, err := decodeStringElements(token)
	if err != nil {
		return nil, err
	}
	for i, el := range elems {
		if el.null {
			continue
		}
		v, err := coerceBool(el.text)
		if err != nil {
			return nil, err
		}
		if v {
			elems[i].text = "true"
		} else {
			elems[i].text = "false"
		}
	}
	return elems, nil
}

func coerceBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "t", "true", "1":
		return true, nil
	case "f", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean token %q", s)
}

// decodeNumericElements splits a flat numeric array literal. Arrays are
// one-dimensional by construction (higher dimensionality fails at
// resolve time), so splitting on top-level commas is sufficient. Plain
// JSON number decoding would reject the non-finite literals the format
// allows (nan, inf), so elements stay text and the primitive parser
// handles them.
func decodeNumericElements(token string) ([]element, error) {
	s := strings.TrimSpace(token)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("not an array literal")
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	out := make([]element, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty array element at index %d", i)
		}
		if p == "null" {
			out[i] = element{null: true}
			continue
		}
		out[i] = element{text: strings.Trim(p, `"`)}
	}
	return out, nil
}
