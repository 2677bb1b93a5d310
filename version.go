package hyperway

import _ "embed"

// Version is the release of the module, read from the VERSION file.
//
//go:embed VERSION
var Version string
