package workspace

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

type EnvTreeNode struct {
	Name     string
	Children []*EnvTreeNode
	File     string // empty for directories, relative path for env files
}

// BuildEnvTree arranges relative env-file paths into a printable tree.
func BuildEnvTree(paths []string) *EnvTreeNode {
	root := &EnvTreeNode{Name: "."}

	for _, p := range paths {
		parts := strings.Split(filepath.ToSlash(p), "/")
		cur := root
		for i, part := range parts {
			if i == len(parts)-1 {
				cur.Children = append(cur.Children, &EnvTreeNode{Name: part, File: p})
				break
			}
			var next *EnvTreeNode
			for _, ch := range cur.Children {
				if ch.Name == part && ch.File == "" {
					next = ch
					break
				}
			}
			if next == nil {
				next = &EnvTreeNode{Name: part}
				cur.Children = append(cur.Children, next)
			}
			cur = next
		}
	}

	sortEnvTree(root)
	return root
}

// files before directories, then by name
func sortEnvTree(node *EnvTreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		ci, cj := node.Children[i], node.Children[j]
		fileI := ci.File != ""
		fileJ := cj.File != ""
		if fileI != fileJ {
			return fileI
		}
		return ci.Name < cj.Name
	})

	for _, ch := range node.Children {
		sortEnvTree(ch)
	}
}

func PrintEnvTree(w io.Writer, node *EnvTreeNode, prefix string, last bool) {
	if node.Name != "." {
		conn := "├─ "
		if last && len(node.Children) == 0 {
			conn = "└─ "
		}
		fmt.Fprintln(w, prefix+conn+node.Name)
	}

	childPrefix := prefix
	if node.Name != "." {
		if last && len(node.Children) == 0 {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}

	for i, ch := range node.Children {
		PrintEnvTree(w, ch, childPrefix, i == len(node.Children)-1)
	}
}
