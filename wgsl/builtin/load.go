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

package builtin

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a registry overlay from r in YAML form:
//
//	myExtensionOp:
//	  collective: true
//	  uniform_args: [0]
//	mySamplerOp:
//	  collective: true
//	  derivative: true
//	  returns_uniform: true
//
// Hosts overlay the result on Default() with Merge to extend the builtin
// set without rebuilding the analyzer.
func Load(r io.Reader) (Registry, error) {
	out := Registry{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return out, nil
		}
		return nil, errors.Wrap(err, "decoding builtin registry")
	}
	return out, nil
}
