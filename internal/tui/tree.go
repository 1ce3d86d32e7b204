package tui

import (
	"sort"
	"strings"

	"gitpusher.dev/gitpusher/internal/github"
)

// treeNode is one directory level of a repository listing
type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

func (n *treeNode) child(name string, isDir bool) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	// A path seen as a parent is a directory even if listed as a file first
	c.isDir = c.isDir || isDir
	return c
}

// sorted returns children with directories first, each group alphabetical
func (n *treeNode) sorted() []*treeNode {
	nodes := make([]*treeNode, 0, len(n.children))
	for _, c := range n.children {
		nodes = append(nodes, c)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].isDir != nodes[j].isDir {
			return nodes[i].isDir
		}
		return nodes[i].name < nodes[j].name
	})
	return nodes
}

// RenderRepoTree renders a recursive tree listing as an indented outline.
// Submodule entries are shown like files.
func RenderRepoTree(items []github.TreeItem) string {
	root := &treeNode{isDir: true}
	for _, item := range items {
		parts := strings.Split(item.Path, "/")
		node := root
		for i, part := range parts {
			last := i == len(parts)-1
			node = node.child(part, !last || item.Type == "tree")
		}
	}

	var b strings.Builder
	renderNodes(&b, root, 0)
	return b.String()
}

func renderNodes(b *strings.Builder, node *treeNode, depth int) {
	for _, c := range node.sorted() {
		b.WriteString(strings.Repeat("  ", depth))
		if c.isDir {
			b.WriteString(ColorCyan(c.name + "/"))
		} else {
			b.WriteString(c.name)
		}
		b.WriteString("\n")
		if c.isDir {
			renderNodes(b, c, depth+1)
		}
	}
}
