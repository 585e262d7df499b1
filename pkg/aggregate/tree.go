// File: pkg/aggregate/tree.go
package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// treeNode is a directory or file in the rendered tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) isDir() bool { return n.children != nil }

// GenerateTree renders slash separated paths as a directory tree rooted at
// ".". Directories come first, then files, each alphabetically.
func GenerateTree(paths []string) string {
	root := &treeNode{name: ".", children: map[string]*treeNode{}}
	for _, p := range paths {
		node := root
		parts := strings.Split(strings.Trim(p, "/"), "/")
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part}
				if i < len(parts)-1 {
					child.children = map[string]*treeNode{}
				}
				node.children[part] = child
			} else if i < len(parts)-1 && child.children == nil {
				child.children = map[string]*treeNode{}
			}
			node = child
		}
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(".\n")
	writeTree(&treeBuilder, root, "")
	return treeBuilder.String()
}

// writeTree writes the children of node with box drawing connectors.
func writeTree(b *strings.Builder, node *treeNode, prefix string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		entries = append(entries, child)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir() != entries[j].isDir() {
			return entries[i].isDir()
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.isDir() {
			fmt.Fprintf(b, "%s%s%s/\n", prefix, connector, entry.name)
			writeTree(b, entry, prefix+extension)
			continue
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, entry.name)
	}
}
