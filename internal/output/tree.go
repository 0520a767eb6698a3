package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/temirov/scraper/internal/types"
	"github.com/temirov/scraper/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	treeDirectoryFormat = "%s%s\n"
	treeFileFormat      = "%s%s (%s)\n"
)

// RenderTree returns the diagram of the retained hierarchy below index.Root.
// Siblings are ordered by name, so unchanged trees always render identically.
func RenderTree(index *types.TreeIndex) string {
	var builder strings.Builder
	WriteTree(&builder, index)
	return builder.String()
}

// WriteTree renders the diagram of index to writer. The root itself has no line.
func WriteTree(writer io.Writer, index *types.TreeIndex) {
	if index == nil {
		return
	}
	renderTreeLevel(writer, index, index.Root, "")
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func renderTreeLevel(writer io.Writer, index *types.TreeIndex, directoryPath string, prefix string) {
	children := index.SortedChildren(directoryPath)
	for position, child := range children {
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, position == len(children)-1)
		if child.IsDirectory {
			fmt.Fprintf(writer, treeDirectoryFormat, linePrefix, child.Name)
			renderTreeLevel(writer, index, filepath.Join(directoryPath, child.Name), childPrefix)
			continue
		}
		fmt.Fprintf(writer, treeFileFormat, linePrefix, child.Name, utils.FormatFileSize(child.SizeBytes))
	}
}
