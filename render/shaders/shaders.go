package shaders

import (
	_ "embed"
)

//go:embed flat.wgsl
var FlatWGSL string
