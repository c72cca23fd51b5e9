package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is the top-level structure of an options file. Having no remain
// field makes gohcl reject any block or attribute the schema does not name.
type fileRoot struct {
	Loader *loaderBlock `hcl:"loader,block"`
	Assets *assetsBlock `hcl:"assets,block"`
}

// loaderBlock holds the settings for the emitted document.
type loaderBlock struct {
	Name       *string        `hcl:"name,optional"`
	Context    string         `hcl:"context,optional"`
	RegExp     string         `hcl:"reg_exp,optional"`
	OutputPath hcl.Expression `hcl:"output_path,optional"`
	PublicPath hcl.Expression `hcl:"public_path,optional"`
}

// assetsBlock holds the settings the file-system host applies to the
// binary and image files a document references.
type assetsBlock struct {
	Name       *string `hcl:"name,optional"`
	OutputPath string  `hcl:"output_path,optional"`
}
