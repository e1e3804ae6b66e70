package postgres

import (
	"fmt"

	"cosmossdk.io/math"
)

// amount scans a NUMERIC selected as text into a math.Int
type amount struct {
	dst *math.Int
}

func (a amount) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported amount type %T", src)
	}

	value, ok := math.NewIntFromString(s)
	if !ok {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a.dst = value
	return nil
}

// optionalAmount scans a nullable NUMERIC, NULL leaves the pointer nil
type optionalAmount struct {
	dst **math.Int
}

func (a optionalAmount) Scan(src any) error {
	if src == nil {
		*a.dst = nil
		return nil
	}
	var value math.Int
	if err := (amount{dst: &value}).Scan(src); err != nil {
		return err
	}
	*a.dst = &value
	return nil
}

func amountArg(v math.Int) any {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

func optionalAmountArg(v *math.Int) any {
	if v == nil || v.IsNil() {
		return nil
	}
	return v.String()
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
