package comment

import (
	"fmt"

	"github.com/alexcrichton/futures-await/syntax"
)

const (
	InfoHeader string = "ASYNC INFO"
	WarnHeader string = "ASYNC WARN"
)

// Info prepends an info comment to fn.
// This function is used to add comments that will be written to the generated code.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
func Info(file string, fn *syntax.FnItem, message string, additionalInfo ...string) {
	prepend(fn, InfoHeader, message, additionalInfo)
	printer.Add(file, fn.Span(), InfoHeader, message, additionalInfo...)
}

// Warn reports a problem with node on the console. Functions also get the
// warning as a comment in the generated code.
func Warn(file string, node syntax.Node, message string, additionalInfo ...string) {
	if fn, ok := node.(*syntax.FnItem); ok {
		prepend(fn, WarnHeader, message, additionalInfo)
	}
	printer.Add(file, node.Span(), WarnHeader, message, additionalInfo...)
}

func prepend(fn *syntax.FnItem, header, message string, additionalInfo []string) {
	comments := []string{
		fmt.Sprintf("// %s: %s", header, message),
	}
	for _, info := range additionalInfo {
		comments = append(comments, fmt.Sprintf("// %s", info))
	}

	if len(fn.Comments) > 0 {
		comments = append(comments, "//")
	}

	fn.Comments = append(comments, fn.Comments...)
}
