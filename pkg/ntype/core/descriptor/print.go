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
	"math"
	"math/big"
	"strconv"
	"strings"
)

// String returns the printed form of a descriptor.
func String(d Descriptor) string {
	var b strings.Builder
	write(&b, d)
	return b.String()
}

func write(b *strings.Builder, d Descriptor) {
	switch x := d.(type) {
	case Symbol:
		b.WriteString(string(x))
	case List:
		if len(x) == 0 {
			b.WriteString(string(Nil))
			return
		}
		b.WriteByte('(')
		for i, elm := range x {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, elm)
		}
		b.WriteByte(')')
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		fmt.Fprintf(b, "%d", x)
	case *big.Int:
		b.WriteString(x.String())
	case *big.Rat:
		if x.IsInt() {
			b.WriteString(x.Num().String())
			return
		}
		b.WriteString(x.RatString())
	case float32:
		writeFloat(b, float64(x), 32, 'f')
	case float64:
		writeFloat(b, x, 64, 'd')
	case complex64:
		b.WriteString("#C(")
		writeFloat(b, float64(real(x)), 32, 'f')
		b.WriteByte(' ')
		writeFloat(b, float64(imag(x)), 32, 'f')
		b.WriteByte(')')
	case complex128:
		b.WriteString("#C(")
		writeFloat(b, real(x), 64, 'd')
		b.WriteByte(' ')
		writeFloat(b, imag(x), 64, 'd')
		b.WriteByte(')')
	case Character:
		b.WriteString(`#\`)
		if name, ok := charNames[rune(x)]; ok {
			b.WriteString(name)
			return
		}
		b.WriteRune(rune(x))
	case string:
		b.WriteString(strconv.Quote(x))
	case nil:
		b.WriteString(string(Nil))
	default:
		fmt.Fprintf(b, "#<%T %v>", x, x)
	}
}

// writeFloat prints f with an explicit exponent marker, so 1.5 as a single
// float prints as 1.5f0 and as a double float as 1.5d0.
func writeFloat(b *strings.Builder, f float64, bits int, marker byte) {
	switch {
	case math.IsNaN(f):
		fmt.Fprintf(b, "#<float%d NaN>", bits)
		return
	case math.IsInf(f, 1):
		fmt.Fprintf(b, "#<float%d +Inf>", bits)
		return
	case math.IsInf(f, -1):
		fmt.Fprintf(b, "#<float%d -Inf>", bits)
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	mantissa, exp, found := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	b.WriteString(mantissa)
	b.WriteByte(marker)
	if !found {
		b.WriteByte('0')
		return
	}
	if strings.HasPrefix(exp, "-") {
		b.WriteByte('-')
	}
	digits := strings.TrimLeft(exp, "+-0")
	if digits == "" {
		digits = "0"
	}
	b.WriteString(digits)
}

var charNames = map[rune]string{
	' ':  "Space",
	'\n': "Newline",
	'\t': "Tab",
	'\r': "Return",
	0:    "Nul",
}
