// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package descriptor

import (
	"fmt"
	"math/big"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Literal tags of the portable encoding. Symbols encode as plain strings and
// lists as list values; every other literal is a single-field struct.
const (
	tagString    = "string"
	tagInteger   = "integer"
	tagRatio     = "ratio"
	tagSingle    = "single"
	tagDouble    = "double"
	tagComplex64 = "complex-single"
	tagComplex   = "complex-double"
	tagCharacter = "character"
)

// ToProto encodes a descriptor as a protobuf Value, for exchange with tools
// outside the process.
func ToProto(d Descriptor) (*structpb.Value, error) {
	switch x := Canonical(d).(type) {
	case Symbol:
		return structpb.NewStringValue(string(x)), nil
	case List:
		vals := make([]*structpb.Value, len(x))
		for i, elm := range x {
			v, err := ToProto(elm)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return structpb.NewListValue(&structpb.ListValue{Values: vals}), nil
	case string:
		return tagged(tagString, structpb.NewStringValue(x)), nil
	case int64:
		return tagged(tagInteger, structpb.NewStringValue(fmt.Sprint(x))), nil
	case *big.Int:
		return tagged(tagInteger, structpb.NewStringValue(x.String())), nil
	case *big.Rat:
		return tagged(tagRatio, structpb.NewStringValue(x.RatString())), nil
	case float32:
		return tagged(tagSingle, structpb.NewNumberValue(float64(x))), nil
	case float64:
		return tagged(tagDouble, structpb.NewNumberValue(x)), nil
	case complex64:
		return tagged(tagComplex64, pair(float64(real(x)), float64(imag(x)))), nil
	case complex128:
		return tagged(tagComplex, pair(real(x), imag(x))), nil
	case Character:
		return tagged(tagCharacter, structpb.NewStringValue(string(rune(x)))), nil
	default:
		return nil, fmt.Errorf("cannot encode %T literal %v", d, d)
	}
}

func tagged(tag string, v *structpb.Value) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{tag: v}})
}

func pair(re, im float64) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(re), structpb.NewNumberValue(im),
	}})
}

// FromProto decodes a descriptor encoded by ToProto.
func FromProto(v *structpb.Value) (Descriptor, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return Symbol(k.StringValue), nil
	case *structpb.Value_ListValue:
		vals := k.ListValue.GetValues()
		if len(vals) == 0 {
			return Nil, nil
		}
		l := make(List, len(vals))
		for i, elm := range vals {
			d, err := FromProto(elm)
			if err != nil {
				return nil, err
			}
			l[i] = d
		}
		return l, nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if len(fields) != 1 {
			return nil, fmt.Errorf("literal struct must have exactly one field, got %d", len(fields))
		}
		for tag, val := range fields {
			return literalFromProto(tag, val)
		}
	}
	return nil, fmt.Errorf("cannot decode %v", v)
}

func literalFromProto(tag string, v *structpb.Value) (Descriptor, error) {
	switch tag {
	case tagString:
		return v.GetStringValue(), nil
	case tagInteger:
		n, ok := new(big.Int).SetString(v.GetStringValue(), 10)
		if !ok {
			return nil, fmt.Errorf("bad integer literal %q", v.GetStringValue())
		}
		return Canonical(n), nil
	case tagRatio:
		q, ok := new(big.Rat).SetString(v.GetStringValue())
		if !ok {
			return nil, fmt.Errorf("bad ratio literal %q", v.GetStringValue())
		}
		return Canonical(q), nil
	case tagSingle:
		return float32(v.GetNumberValue()), nil
	case tagDouble:
		return v.GetNumberValue(), nil
	case tagComplex64, tagComplex:
		parts := v.GetListValue().GetValues()
		if len(parts) != 2 {
			return nil, fmt.Errorf("complex literal needs two parts, got %d", len(parts))
		}
		c := complex(parts[0].GetNumberValue(), parts[1].GetNumberValue())
		if tag == tagComplex64 {
			return complex64(c), nil
		}
		return c, nil
	case tagCharacter:
		rs := []rune(v.GetStringValue())
		if len(rs) != 1 {
			return nil, fmt.Errorf("bad character literal %q", v.GetStringValue())
		}
		return Character(rs[0]), nil
	}
	return nil, fmt.Errorf("unknown literal tag %q", tag)
}

// MarshalJSON renders a descriptor in the protobuf JSON mapping of its
// portable encoding.
func MarshalJSON(d Descriptor) ([]byte, error) {
	v, err := ToProto(d)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(v)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func UnmarshalJSON(data []byte) (Descriptor, error) {
	v := &structpb.Value{}
	if err := protojson.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return FromProto(v)
}
