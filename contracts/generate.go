package contracts

import "embed"

// Code images are not shipped; their paths come from the configuration.
//
//go:embed compiled/*.abi.json
var Fs embed.FS
