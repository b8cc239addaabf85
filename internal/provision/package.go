package provision

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Platform describes the host the server will run on. HostVersion is the
// embedding editor host's version string; it only matters for the Windows
// 64-bit carve-out below and may be left empty.
type Platform struct {
	OS          string
	Arch        string
	HostVersion string
}

// CurrentPlatform returns the running platform with the given host version.
func CurrentPlatform(hostVersion string) Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH, HostVersion: hostVersion}
}

// PackageDescriptor names the archive to download for one (platform, version)
// pair. Immutable once computed.
type PackageDescriptor struct {
	Filename string
	URL      string

	// GenericFallback marks the runtime-agnostic mono package chosen for
	// unrecognized platforms. Best effort, not a correctness guarantee; the
	// installer surfaces a warning instead of asserting success.
	GenericFallback bool
}

// minWin64HostVersion is the oldest host version that can launch the 64-bit
// server on Windows without crashing. Older 64-bit hosts get the 32-bit
// package instead.
const minWin64HostVersion = "26.4"

// Package filenames published with every server release.
const (
	packageWinX64   = "omnisharp-win-x64.zip"
	packageWinX86   = "omnisharp-win-x86.zip"
	packageOSX      = "omnisharp-osx.tar.gz"
	packageLinuxX64 = "omnisharp-linux-x64.tar.gz"
	packageMono     = "omnisharp-mono.tar.gz"
)

// DescribePackage maps platform and version to the archive filename and its
// download URL under releaseBaseURL.
func DescribePackage(p Platform, version, releaseBaseURL string) PackageDescriptor {
	var filename string
	generic := false

	switch p.OS {
	case osWindows:
		filename = windowsPackage(p)
	case "darwin":
		filename = packageOSX
	case "linux":
		switch p.Arch {
		case "amd64", "386":
			filename = packageLinuxX64
		default:
			filename = packageMono
			generic = true
		}
	default:
		filename = packageMono
		generic = true
	}

	return PackageDescriptor{
		Filename:        filename,
		URL:             fmt.Sprintf("%s/%s/%s", releaseBaseURL, version, filename),
		GenericFallback: generic,
	}
}

// windowsPackage picks the Windows archive. 64-bit hosts older than
// minWin64HostVersion get the 32-bit package: those hosts crash when
// launching 64-bit managed binaries.
func windowsPackage(p Platform) string {
	if p.Arch != "amd64" && p.Arch != "arm64" {
		return packageWinX86
	}
	if hostOlderThan(p.HostVersion, minWin64HostVersion) {
		return packageWinX86
	}
	return packageWinX64
}

// hostOlderThan reports whether hostVersion parses as semver and is below
// threshold. An empty or unparseable host version counts as new enough.
func hostOlderThan(hostVersion, threshold string) bool {
	if hostVersion == "" {
		return false
	}
	host, err := semver.NewVersion(hostVersion)
	if err != nil {
		return false
	}
	floor, err := semver.NewVersion(threshold)
	if err != nil {
		return false
	}
	return host.LessThan(floor)
}
