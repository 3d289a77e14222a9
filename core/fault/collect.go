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

package fault

// List is an error collector that keeps all errors handed to it.
type List []error

// Collect appends err to the list. nil errors are ignored.
func (l *List) Collect(err error) {
	if err != nil {
		*l = append(*l, err)
	}
}

// First returns the first error collected, or nil if the list is empty.
func (l List) First() error {
	if len(l) == 0 {
		return nil
	}
	return l[0]
}

// One is an error collector that keeps only the first error handed to it.
type One struct {
	err error
}

// Collect stores err if no error has been stored yet. nil errors are ignored.
func (o *One) Collect(err error) {
	if o.err == nil {
		o.err = err
	}
}

// First returns the stored error, or nil if no error has been collected.
func (o One) First() error {
	return o.err
}
