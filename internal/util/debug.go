package util

import (
	"github.com/alexcrichton/futures-await/syntax"
	"github.com/davecgh/go-spew/spew"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// DebugPrint returns a string representation of the given node.
// This is useful for debugging purposes, and will pretty print
// the structure of a node in human readable form.
//
// Do Not Use: This function is only for debugging purposes.
func DebugPrint(node syntax.Node) string {
	return dumper.Sdump(node)
}
