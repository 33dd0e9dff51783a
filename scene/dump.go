package scene

import (
	"fmt"
	"strings"
)

const noName = "*no-name*"

func label(n *Node) string {
	name := n.Name
	if name == "" {
		name = noName
	}
	return fmt.Sprintf("%s [%s]", name, n.Type)
}

// Dump renders subtree as box-drawing tree, one line per node
func Dump(root *Node) []string {
	lines := []string{label(root)}
	return dumpChildren(root, "", lines)
}

func dumpChildren(n *Node, prefix string, lines []string) []string {
	last := len(n.children) - 1
	for i, c := range n.children {
		connector, indent := "├─", "│ "
		if i == last {
			connector, indent = "└─", "  "
		}
		lines = append(lines, prefix+connector+label(c))
		lines = dumpChildren(c, prefix+indent, lines)
	}
	return lines
}

func DumpString(root *Node) string {
	return strings.Join(Dump(root), "\n")
}
