package model

import (
	"fmt"
	"reflect"

	"cosmossdk.io/math"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var tMathInt = reflect.TypeOf(math.Int{})

// NewRegistry returns the default bson registry extended with a codec that
// stores math.Int as its decimal string, 256 bit values do not fit any
// native bson number.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tMathInt, bsoncodec.ValueEncoderFunc(mathIntEncodeValue))
	reg.RegisterTypeDecoder(tMathInt, bsoncodec.ValueDecoderFunc(mathIntDecodeValue))
	return reg
}

func mathIntEncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tMathInt {
		return bsoncodec.ValueEncoderError{Name: "MathIntEncodeValue", Types: []reflect.Type{tMathInt}, Received: val}
	}

	i := val.Interface().(math.Int)
	if i.IsNil() {
		return vw.WriteNull()
	}
	return vw.WriteString(i.String())
}

func mathIntDecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tMathInt {
		return bsoncodec.ValueDecoderError{Name: "MathIntDecodeValue", Types: []reflect.Type{tMathInt}, Received: val}
	}

	switch vr.Type() {
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
		val.Set(reflect.ValueOf(math.Int{}))
		return nil
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		i, ok := math.NewIntFromString(s)
		if !ok {
			return fmt.Errorf("cannot decode %q into math.Int", s)
		}
		val.Set(reflect.ValueOf(i))
		return nil
	default:
		return fmt.Errorf("cannot decode bson type %s into math.Int", vr.Type())
	}
}
