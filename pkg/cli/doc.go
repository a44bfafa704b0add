// Package cli implements the addon-check command line.
//
// Commands:
//
//	addon-check check [paths...] --branch matrix --repo ./repo
//	addon-check reverse <addon-id> --branch matrix --repo ./repo
//	addon-check branches [--repo ./repo]
//	addon-check serve --repo ./repo --addr :8080
//
// Configuration is read from --config, or from .addon-check.yaml in the
// working directory, then overridden by ADDON_CHECK_* environment variables
// and finally by flags.
//
// check exits with status 1 when any record reaches the --fail-on severity
// (problem by default). --fail-on never always exits 0 unless the run itself
// fails.
package cli
