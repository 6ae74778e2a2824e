package site

import _ "embed"

// defaultData is the authoritative site data compiled into the binary.
//
//go:embed data/site.yaml
var defaultData []byte
