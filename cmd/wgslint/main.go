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

// wgslint checks program descriptions for collective operations called from
// non-uniform control flow.
//
// Usage:
//
//	wgslint [flags] program.yaml...
//
// Each input is a YAML function document (see the cfgyaml package). The
// exit status is 1 when any diagnostic was reported, 2 on a malformed
// input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/gfxtool/wgslint/core/log"
	"github.com/gfxtool/wgslint/wgsl/builtin"
	"github.com/gfxtool/wgslint/wgsl/cfgyaml"
	"github.com/gfxtool/wgslint/wgsl/validate"
)

var (
	verbose      = flag.Bool("verbose", false, "show analysis debug output")
	registryPath = flag.String("registry", "", "YAML overlay extending the builtin registry")
	noColor      = flag.Bool("nocolor", false, "disable colored diagnostics")
	noDerivative = flag.Bool("suppress-derivatives", false, "suppress derivative uniformity diagnostics")
)

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: wgslint [flags] program.yaml...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx := log.Background()
	if *verbose {
		ctx = log.PutFilter(ctx, log.Debug)
	}

	os.Exit(run(ctx, flag.Args()))
}

func run(ctx context.Context, paths []string) int {
	registry, err := loadRegistry(ctx)
	if err != nil {
		log.Err(ctx, err, "loading registry")
		return 2
	}
	opts := validate.Options{
		Registry:                     registry,
		SuppressDerivativeUniformity: *noDerivative,
	}
	color := !*noColor && isatty.IsTerminal(os.Stdout.Fd())

	status := 0
	for _, path := range paths {
		issues, err := check(ctx, path, opts)
		if err != nil {
			log.Err(log.V{"file": path}.Bind(ctx), err, "checking")
			return 2
		}
		report(path, issues, color)
		if len(issues) > 0 {
			status = 1
		}
	}
	return status
}

func loadRegistry(ctx context.Context) (builtin.Registry, error) {
	if *registryPath == "" {
		return nil, nil
	}
	f, err := os.Open(*registryPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	overlay, err := builtin.Load(f)
	if err != nil {
		return nil, err
	}
	log.D(ctx, "registry overlay: %d entries", len(overlay))
	return builtin.Default().Merge(overlay), nil
}

func check(ctx context.Context, path string, opts validate.Options) (validate.Issues, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	fn, err := cfgyaml.Decode(r)
	if err != nil {
		return nil, err
	}
	return validate.Validate(log.V{"file": path}.Bind(ctx), fn, opts)
}

func report(path string, issues validate.Issues, color bool) {
	if len(issues) == 0 {
		return
	}
	// Align messages past the longest location prefix.
	width := 0
	locs := make([]string, len(issues))
	for n, i := range issues {
		locs[n] = fmt.Sprintf("%s:%v", path, i.At)
		if w := runewidth.StringWidth(locs[n]); w > width {
			width = w
		}
	}
	for n, i := range issues {
		loc := runewidth.FillRight(locs[n], width)
		if color {
			fmt.Printf("%s%s%s %serror:%s %s [%s]\n",
				ansiBold, loc, ansiReset, ansiRed, ansiReset, i.Message, i.Function)
		} else {
			fmt.Printf("%s error: %s [%s]\n", loc, i.Message, i.Function)
		}
	}
}
