// Package types defines the data structures shared across scraper packages.
package types

import (
	"errors"
	"sort"
)

var (
	// ErrInvalidInput reports a missing or non-directory input root.
	ErrInvalidInput = errors.New("invalid input folder")
	// ErrWriteFailure reports that the output document could not be created or written.
	ErrWriteFailure = errors.New("output write failure")
	// ErrDecodeFailure reports a file whose bytes are not valid UTF-8.
	ErrDecodeFailure = errors.New("file is not valid UTF-8")
	// ErrReadFailure reports a file that could not be read at all.
	ErrReadFailure = errors.New("file read failure")
)

// FailureKind classifies a recovered per-file failure.
type FailureKind string

const (
	FailureDecode FailureKind = "decode"
	FailureRead   FailureKind = "read"
)

// Entry is one retained filesystem object under the input root.
type Entry struct {
	Name        string
	IsDirectory bool
	SizeBytes   uint64
}

// TreeIndex maps a retained directory path to its retained children.
// Children keep insertion order; SortedChildren orders them for rendering.
type TreeIndex struct {
	Root     string
	children map[string][]Entry
}

// NewTreeIndex returns an empty index rooted at root.
func NewTreeIndex(root string) *TreeIndex {
	return &TreeIndex{Root: root, children: map[string][]Entry{}}
}

// Add records entry as a child of parent.
func (index *TreeIndex) Add(parent string, entry Entry) {
	index.children[parent] = append(index.children[parent], entry)
}

// Children returns the children recorded under parent in insertion order.
func (index *TreeIndex) Children(parent string) []Entry {
	return index.children[parent]
}

// SortedChildren returns a copy of the children under parent ordered by name.
func (index *TreeIndex) SortedChildren(parent string) []Entry {
	recorded := index.children[parent]
	if len(recorded) == 0 {
		return nil
	}
	sorted := append([]Entry(nil), recorded...)
	sort.SliceStable(sorted, func(left, right int) bool {
		return sorted[left].Name < sorted[right].Name
	})
	return sorted
}

// SelectionSet is the ordered list of absolute file paths accepted for merging.
type SelectionSet []string

// FileFailure describes a file whose content could not be merged.
type FileFailure struct {
	Path string
	Kind FailureKind
	Err  error
}

// Result summarizes one pipeline run.
type Result struct {
	InputRoot  string
	OutputPath string
	Selection  SelectionSet
	Tree       string
	Failures   []FileFailure
}
