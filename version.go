// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go — build-time version metadata injected via -ldflags and exposed
// through the Version() function.

package reditio

// Build-time variables injected via -ldflags.
//
//	BuildDate format : YYYY.MM.DD-HHMM  (24-hour clock)
//	BuildEnv  values : dev | qa | prod
var (
	// Set by: -ldflags "-X 'github.com/MatthewScholefield/Reditio.BuildDate=2026.10.19-1200'"
	BuildDate = "0000.00.00-0000"

	// Set by: -ldflags "-X 'github.com/MatthewScholefield/Reditio.BuildEnv=prod'"
	BuildEnv = "dev"
)

// Version returns the full version string in the form "YYYY.MM.DD-HHMM-env".
func Version() string {
	return BuildDate + "-" + BuildEnv
}
