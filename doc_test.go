// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inkwave

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	for _, tc := range []struct {
		name    string
		info    *debug.BuildInfo
		version string
		sum     string
	}{
		{
			name: "nil",
		},
		{
			name: "not-a-dep",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.7.0", Sum: "h1:sys"},
				},
			},
		},
		{
			name: "dep",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.7.0", Sum: "h1:sys"},
					{Path: "github.com/go-lpc/inkwave", Version: "v0.2.0", Sum: "h1:ink"},
				},
			},
			version: "v0.2.0",
			sum:     "h1:ink",
		},
		{
			name: "replace-path-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    "github.com/go-lpc/inkwave",
					Version: "v0.2.0",
					Replace: &debug.Module{Path: "example.org/inkwave", Version: "v0.3.0", Sum: "h1:fork"},
				}},
			},
			version: "example.org/inkwave v0.3.0",
			sum:     "h1:fork",
		},
		{
			name: "replace-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    "github.com/go-lpc/inkwave",
					Version: "v0.2.0",
					Replace: &debug.Module{Version: "v0.3.0", Sum: "h1:fork"},
				}},
			},
			version: "v0.3.0",
			sum:     "h1:fork",
		},
		{
			name: "replace-path",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    "github.com/go-lpc/inkwave",
					Version: "v0.2.0",
					Replace: &debug.Module{Path: "../inkwave"},
				}},
			},
			version: "../inkwave",
		},
		{
			name: "replace-empty",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path:    "github.com/go-lpc/inkwave",
					Version: "v0.2.0",
					Replace: &debug.Module{},
				}},
			},
			version: "v0.2.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.info)
			if got, want := version, tc.version; got != want {
				t.Fatalf("invalid version: got=%q, want=%q", got, want)
			}
			if got, want := sum, tc.sum; got != want {
				t.Fatalf("invalid sum: got=%q, want=%q", got, want)
			}
		})
	}
}
