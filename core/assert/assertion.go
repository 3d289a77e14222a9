// Copyright (C) 2024 The wgslint Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assert

import (
	"bytes"
	"fmt"
)

type level int

const (
	levelLog level = iota
	levelError
	levelFatal
)

// Assertion is the type for the start of an assertion line.
// You construct an assertion from an Output using assert.For.
type Assertion struct {
	level level
	out   *bytes.Buffer
	to    Output
}

// Critical switches this assertion from Error to Fatal.
func (a *Assertion) Critical() *Assertion {
	a.level = levelFatal
	return a
}

// Got appends the value being tested to the assertion message.
func (a *Assertion) Got(value interface{}) *Assertion {
	fmt.Fprintf(a.out, "Got      %v\n", value)
	return a
}

// Expect appends the expectation to the assertion message.
func (a *Assertion) Expect(op string, value interface{}) *Assertion {
	fmt.Fprintf(a.out, "Expect %s %v\n", op, value)
	return a
}

// Add appends a named extra line to the assertion message.
func (a *Assertion) Add(name string, value interface{}) *Assertion {
	fmt.Fprintf(a.out, "%s %v\n", name, value)
	return a
}

// Compare is a shorthand for Got(value).Expect(op, expect).
func (a *Assertion) Compare(value interface{}, op string, expect interface{}) *Assertion {
	return a.Got(value).Expect(op, expect)
}

// Test commits the assertion. If ok is false the buffered message is flushed
// to the output at the assertion's level. It returns ok.
func (a *Assertion) Test(ok bool) bool {
	if ok {
		return true
	}
	switch a.level {
	case levelFatal:
		a.to.Fatal(a.out.String())
	case levelError:
		a.to.Error(a.out.String())
	default:
		a.to.Log(a.out.String())
	}
	return false
}
