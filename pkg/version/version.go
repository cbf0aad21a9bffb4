// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time via -ldflags.
var Version string

type BuildInfo struct {
	GoVersion string
	Commit    string
	Time      string
	Modified  string
}

func ReadBuildInfo() *BuildInfo {
	info := &BuildInfo{}
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		info.GoVersion = buildInfo.GoVersion
		for _, s := range buildInfo.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.Time = s.Value
			case "vcs.modified":
				info.Modified = s.Value
			}
		}
	}
	return info
}

func (i *BuildInfo) String() string {
	return fmt.Sprintf("commit=%s time=%s go=%s modified=%s", i.Commit, i.Time, i.GoVersion, i.Modified)
}
