package comment

import (
	"testing"

	"github.com/alexcrichton/futures-await/syntax"
)

func TestInfo(t *testing.T) {
	node := &syntax.FnItem{Name: "hi"}
	Info("", node, "message", "additionalInfo")

	if len(node.Comments) != 2 {
		t.Errorf("Expected 2 comments, got %d", len(node.Comments))
	} else {
		expected := []string{
			"// ASYNC INFO: message",
			"// additionalInfo",
		}
		for i, comment := range node.Comments {
			if comment != expected[i] {
				t.Errorf("Expected %s, got %s", expected[i], comment)
			}
		}
	}

	nodeWithComments := &syntax.FnItem{Name: "hi", Comments: []string{"// existing comment"}}
	Info("", nodeWithComments, "message", "additionalInfo")
	if len(nodeWithComments.Comments) != 4 {
		t.Errorf("Expected 4 comments, got %d", len(nodeWithComments.Comments))
	} else {
		expected := []string{
			"// ASYNC INFO: message",
			"// additionalInfo",
			"//",
			"// existing comment",
		}
		for i, comment := range nodeWithComments.Comments {
			if comment != expected[i] {
				t.Errorf("Expected %s, got %s", expected[i], comment)
			}
		}
	}
}

func TestWarn(t *testing.T) {
	node := &syntax.FnItem{Name: "hi"}
	Warn("", node, "message", "additionalInfo")

	if len(node.Comments) != 2 {
		t.Errorf("Expected 2 comments, got %d", len(node.Comments))
	} else {
		expected := []string{
			"// ASYNC WARN: message",
			"// additionalInfo",
		}
		for i, comment := range node.Comments {
			if comment != expected[i] {
				t.Errorf("Expected %s, got %s", expected[i], comment)
			}
		}
	}

	// non-function nodes are only reported on the console
	block := &syntax.Block{}
	Warn("", block, "message")
}
