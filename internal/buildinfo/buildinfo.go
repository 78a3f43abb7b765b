// Package buildinfo exposes version metadata stamped at build time via
// -ldflags, e.g.:
//
//	go build -ldflags "-X github.com/appmarket/appship/internal/buildinfo.buildVersion=v1.2.0 \
//	  -X github.com/appmarket/appship/internal/buildinfo.buildDate=2026-08-25 \
//	  -X github.com/appmarket/appship/internal/buildinfo.buildCommit=abc1234"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// Version returns the stamped version string.
func Version() string { return buildVersion }

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
