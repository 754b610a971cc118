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
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports text that does not read as a descriptor.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("descriptor syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Read reads exactly one descriptor from text, such as
// "(array double-float (* 3))". Symbols are upper-cased.
func Read(text string) (Descriptor, error) {
	r := &reader{src: text}
	d, err := r.read()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.pos < len(r.src) {
		return nil, r.errorf("unexpected trailing input %q", r.src[r.pos:])
	}
	return d, nil
}

// MustRead is Read for statically known text. It panics on error.
func MustRead(text string) Descriptor {
	d, err := Read(text)
	if err != nil {
		panic(err)
	}
	return d
}

type reader struct {
	src string
	pos int
}

func (r *reader) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: r.pos, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) skipSpace() {
	for r.pos < len(r.src) {
		c, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if c == ';' {
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		if !unicode.IsSpace(c) {
			return
		}
		r.pos += size
	}
}

func (r *reader) read() (Descriptor, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, r.errorf("unexpected end of input")
	}
	switch c := r.src[r.pos]; {
	case c == '(':
		r.pos++
		return r.readList()
	case c == ')':
		return nil, r.errorf("unbalanced ')'")
	case c == '"':
		return r.readString()
	case c == '\'':
		// 'x is read as (QUOTE x).
		r.pos++
		d, err := r.read()
		if err != nil {
			return nil, err
		}
		return List{Symbol("QUOTE"), d}, nil
	case strings.HasPrefix(r.src[r.pos:], `#\`):
		return r.readCharacter()
	case strings.HasPrefix(strings.ToUpper(r.src[r.pos:]), "#C("):
		return r.readComplex()
	default:
		return r.readAtom()
	}
}

func (r *reader) readList() (Descriptor, error) {
	var l List
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return nil, r.errorf("unterminated list")
		}
		if r.src[r.pos] == ')' {
			r.pos++
			if len(l) == 0 {
				return Nil, nil
			}
			return l, nil
		}
		d, err := r.read()
		if err != nil {
			return nil, err
		}
		l = append(l, d)
	}
}

func (r *reader) readString() (Descriptor, error) {
	start := r.pos
	r.pos++
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case '\\':
			r.pos += 2
		case '"':
			r.pos++
			s, err := strconv.Unquote(r.src[start:r.pos])
			if err != nil {
				return nil, r.errorf("bad string literal: %v", err)
			}
			return s, nil
		default:
			r.pos++
		}
	}
	return nil, r.errorf("unterminated string")
}

func (r *reader) readCharacter() (Descriptor, error) {
	r.pos += 2
	if r.pos >= len(r.src) {
		return nil, r.errorf("incomplete character literal")
	}
	c, size := utf8.DecodeRuneInString(r.src[r.pos:])
	end := r.pos + size
	for end < len(r.src) && isConstituent(r.src[end]) {
		end++
	}
	token := r.src[r.pos:end]
	r.pos = end
	if utf8.RuneCountInString(token) == 1 {
		return Character(c), nil
	}
	for k, name := range charNames {
		if strings.EqualFold(name, token) {
			return Character(k), nil
		}
	}
	return nil, r.errorf("unknown character name %q", token)
}

func (r *reader) readComplex() (Descriptor, error) {
	r.pos += len("#C(")
	d, err := r.readList()
	if err != nil {
		return nil, err
	}
	parts, ok := d.(List)
	if !ok || len(parts) != 2 {
		return nil, r.errorf("complex literal needs two parts")
	}
	switch re := parts[0].(type) {
	case float64:
		if im, ok := toFloat64(parts[1]); ok {
			return complex(re, im), nil
		}
	case float32:
		if im, ok := parts[1].(float64); ok {
			return complex(float64(re), im), nil
		}
		if im, ok := toFloat64(parts[1]); ok {
			return complex64(complex(float64(re), im)), nil
		}
	default:
		if im, ok := parts[1].(float64); ok {
			re, _ := toFloat64(re)
			return complex(re, im), nil
		}
		if im, ok := parts[1].(float32); ok {
			re, _ := toFloat64(re)
			return complex64(complex(re, float64(im))), nil
		}
	}
	return nil, r.errorf("complex literal parts must be floats, got %v", String(d))
}

func toFloat64(d Descriptor) (float64, bool) {
	switch x := d.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	case *big.Rat:
		f, _ := x.Float64()
		return f, true
	}
	return 0, false
}

var (
	integerRE = regexp.MustCompile(`^[+-]?[0-9]+\.?$`)
	ratioRE   = regexp.MustCompile(`^[+-]?[0-9]+/[0-9]+$`)
	floatRE   = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eEfFsSdDlL][+-]?[0-9]+)?$`)
)

func isConstituent(c byte) bool {
	switch c {
	case '(', ')', '"', '\'', ';', ' ', '\t', '\n', '\r':
		return false
	}
	return true
}

func (r *reader) readAtom() (Descriptor, error) {
	start := r.pos
	for r.pos < len(r.src) && isConstituent(r.src[r.pos]) {
		r.pos++
	}
	token := r.src[start:r.pos]
	if token == "" {
		return nil, r.errorf("unexpected character %q", r.src[r.pos])
	}
	switch {
	case integerRE.MatchString(token):
		n, ok := new(big.Int).SetString(strings.TrimSuffix(token, "."), 10)
		if !ok {
			return nil, r.errorf("bad integer %q", token)
		}
		return Canonical(n), nil
	case ratioRE.MatchString(token):
		q, ok := new(big.Rat).SetString(token)
		if !ok {
			return nil, r.errorf("bad ratio %q", token)
		}
		return Canonical(q), nil
	case floatRE.MatchString(token) && strings.ContainsAny(token, ".eEfFsSdDlL"):
		return readFloat(token)
	}
	return Sym(token), nil
}

// readFloat reads a float token. The exponent marker selects the format:
// d and l read double floats, anything else single floats.
func readFloat(token string) (Descriptor, error) {
	double := strings.ContainsAny(token, "dDlL")
	norm := strings.Map(func(c rune) rune {
		switch c {
		case 'd', 'D', 'f', 'F', 's', 'S', 'l', 'L':
			return 'e'
		}
		return c
	}, token)
	if double {
		f, err := strconv.ParseFloat(norm, 64)
		if err != nil {
			return nil, &SyntaxError{Msg: err.Error()}
		}
		return f, nil
	}
	f, err := strconv.ParseFloat(norm, 32)
	if err != nil {
		return nil, &SyntaxError{Msg: err.Error()}
	}
	return float32(f), nil
}
