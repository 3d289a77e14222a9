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

import "reflect"

// OnSlice is the result of calling ThatSlice on an Assertion.
// It provides assertion tests that are specific to slice types.
type OnSlice struct {
	*Assertion
	slice interface{}
}

// ThatSlice returns an OnSlice for slice based assertions.
func (a *Assertion) ThatSlice(slice interface{}) OnSlice {
	return OnSlice{Assertion: a, slice: slice}
}

func (o OnSlice) length() int {
	v := reflect.ValueOf(o.slice)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len()
	default:
		return -1
	}
}

// IsEmpty asserts that the slice has no elements.
func (o OnSlice) IsEmpty() bool {
	return o.IsLength(0)
}

// IsNotEmpty asserts that the slice has at least one element.
func (o OnSlice) IsNotEmpty() bool {
	return o.Got(o.slice).Expect("length >", 0).Test(o.length() > 0)
}

// IsLength asserts that the slice has exactly the specified number of elements.
func (o OnSlice) IsLength(length int) bool {
	return o.Got(o.slice).Expect("length ==", length).Test(o.length() == length)
}
