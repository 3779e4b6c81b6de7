package encoding

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// ArgumentEncoder converts command-line strings into the Go values abi.Pack expects
type ArgumentEncoder struct{}

// NewArgumentEncoder creates a new argument encoder
func NewArgumentEncoder() *ArgumentEncoder {
	return &ArgumentEncoder{}
}

// EncodeArguments parses raw values against the given ABI arguments
func (e *ArgumentEncoder) EncodeArguments(args abi.Arguments, raw []string) ([]any, error) {
	if len(args) != len(raw) {
		return nil, fmt.Errorf("%w: expected %d argument(s) %s, got %d",
			domain.ErrInvalidArgument, len(args), describeArguments(args), len(raw))
	}

	values := make([]any, len(args))
	for i, arg := range args {
		value, err := ParseValue(arg.Type, raw[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("%w: argument %s (%s): %v", domain.ErrInvalidArgument, name, arg.Type.String(), err)
		}
		values[i] = value
	}
	return values, nil
}

// ParseValue parses a single string into the Go representation of an ABI type
func ParseValue(typ abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch typ.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		b, err := decodeHex(raw)
		if err != nil {
			return nil, err
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := decodeHex(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("value is %d bytes, bytes%d holds at most %d", len(b), typ.Size, typ.Size)
		}
		// Left-aligned, zero padded on the right
		arr := reflect.New(typ.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.UintTy, abi.IntTy:
		return parseInteger(typ, raw)

	case abi.SliceTy, abi.ArrayTy:
		return parseList(typ, raw)

	default:
		return nil, fmt.Errorf("type %s is not supported on the command line", typ.String())
	}
}

func parseInteger(typ abi.Type, raw string) (any, error) {
	digits, base := strings.ReplaceAll(raw, "_", ""), 10
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok || digits == "" {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if negative {
		v.Neg(v)
	}

	unsigned := typ.T == abi.UintTy
	if unsigned {
		if v.Sign() < 0 || v.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", raw, typ.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		lowest := new(big.Int).Neg(limit)
		highest := new(big.Int).Sub(limit, big.NewInt(1))
		if v.Cmp(lowest) < 0 || v.Cmp(highest) > 0 {
			return nil, fmt.Errorf("%s out of range for int%d", raw, typ.Size)
		}
	}

	// abi.Pack wants uint8..uint64/int8..int64 as native types and *big.Int for everything else
	goType := typ.GetType()
	switch goType.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(v.Uint64()).Convert(goType).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(v.Int64()).Convert(goType).Interface(), nil
	default:
		return v, nil
	}
}

// parseList accepts "[a,b,c]" or "a,b,c". Nested lists are not supported.
func parseList(typ abi.Type, raw string) (any, error) {
	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")

	var items []string
	if strings.TrimSpace(inner) != "" {
		items = strings.Split(inner, ",")
	}

	if typ.T == abi.ArrayTy && len(items) != typ.Size {
		return nil, fmt.Errorf("expected %d elements, got %d", typ.Size, len(items))
	}

	var out reflect.Value
	if typ.T == abi.ArrayTy {
		out = reflect.New(typ.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(typ.GetType(), len(items), len(items))
	}

	for i, item := range items {
		value, err := ParseValue(*typ.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(value))
	}
	return out.Interface(), nil
}

func decodeHex(raw string) ([]byte, error) {
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		raw = "0x" + raw
	}
	b, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", raw, err)
	}
	return b, nil
}

func describeArguments(args abi.Arguments) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = strings.TrimSpace(arg.Type.String() + " " + arg.Name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
