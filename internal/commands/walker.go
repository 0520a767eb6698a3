// Package commands contains the selection logic: path rules and the directory walk.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/scraper/internal/types"
	"github.com/temirov/scraper/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootMissingFormat is used when the root does not exist or cannot be inspected.
	errorRootMissingFormat = "%w: %s: %v"
	// errorRootNotDirectoryFormat is used when the root is a file.
	errorRootNotDirectoryFormat = "%w: %s is not a directory"
	// errorWalkFormat is used when the traversal aborts.
	errorWalkFormat = "walking %s: %w"
)

// Walker traverses a directory tree and records the entries accepted by its matcher.
// Symbolic links are never followed: linked directories are not descended and linked files are not merged.
type Walker struct {
	Matcher *PatternMatcher
	Logger  *zap.Logger
	// SkipPaths lists files that are never selected, such as the output document.
	// They are matched by file identity, so a path reached through a symbolic link still matches.
	SkipPaths []string
}

// Walk performs a pre-order traversal of root and returns the retained tree and the selected files
// in discovery order. It fails with types.ErrInvalidInput when root is missing or not a directory.
func (walker *Walker) Walk(root string) (*types.TreeIndex, types.SelectionSet, error) {
	logger := walker.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absoluteRoot, absoluteError := resolveRoot(root)
	if absoluteError != nil {
		return nil, nil, absoluteError
	}

	skipped := statSkipPaths(walker.SkipPaths)

	index := types.NewTreeIndex(absoluteRoot)
	var selection types.SelectionSet

	walkFunction := func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("skipping unreadable path", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() && walkedPath != absoluteRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == absoluteRoot {
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, absoluteRoot)
		parentPath := filepath.Dir(walkedPath)

		if directoryEntry.IsDir() {
			if walker.Matcher.ExcludeDirectory(relativePath) {
				logger.Debug("pruning excluded folder", zap.String("path", walkedPath))
				return filepath.SkipDir
			}
			index.Add(parentPath, types.Entry{Name: directoryEntry.Name(), IsDirectory: true})
			return nil
		}

		if !directoryEntry.Type().IsRegular() {
			logger.Debug("skipping non-regular file", zap.String("path", walkedPath), zap.Stringer("mode", directoryEntry.Type()))
			return nil
		}
		entryInfo, infoError := directoryEntry.Info()
		if infoError == nil && isSameFileAsAny(entryInfo, skipped) {
			logger.Debug("skipping output document", zap.String("path", walkedPath))
			return nil
		}

		verdict := walker.Matcher.FileVerdict(relativePath)
		if verdict != VerdictIncluded {
			logger.Debug("excluding file", zap.String("path", walkedPath), zap.String("reason", string(verdict)))
			return nil
		}

		var sizeBytes uint64
		if infoError != nil {
			logger.Warn("unable to stat file", zap.String("path", walkedPath), zap.Error(infoError))
		} else if entryInfo.Size() > 0 {
			sizeBytes = uint64(entryInfo.Size())
		}

		index.Add(parentPath, types.Entry{Name: directoryEntry.Name(), SizeBytes: sizeBytes})
		selection = append(selection, walkedPath)
		return nil
	}

	if walkError := filepath.WalkDir(absoluteRoot, walkFunction); walkError != nil {
		return nil, nil, fmt.Errorf(errorWalkFormat, absoluteRoot, walkError)
	}
	return index, selection, nil
}

// resolveRoot returns the absolute root, following a symbolic link only when the root itself is one.
func resolveRoot(root string) (string, error) {
	absoluteRoot, absolutePathError := filepath.Abs(root)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, root, absolutePathError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return "", fmt.Errorf(errorRootMissingFormat, types.ErrInvalidInput, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(errorRootNotDirectoryFormat, types.ErrInvalidInput, absoluteRoot)
	}
	if linkInfo, linkError := os.Lstat(absoluteRoot); linkError == nil && linkInfo.Mode()&fs.ModeSymlink != 0 {
		resolvedRoot, resolveError := filepath.EvalSymlinks(absoluteRoot)
		if resolveError != nil {
			return "", fmt.Errorf(errorRootMissingFormat, types.ErrInvalidInput, absoluteRoot, resolveError)
		}
		return resolvedRoot, nil
	}
	return absoluteRoot, nil
}

// statSkipPaths returns the identities of the skip paths that currently exist.
func statSkipPaths(skipPaths []string) []os.FileInfo {
	var identities []os.FileInfo
	for _, skipPath := range skipPaths {
		skipInfo, statError := os.Stat(skipPath)
		if statError != nil || !skipInfo.Mode().IsRegular() {
			continue
		}
		identities = append(identities, skipInfo)
	}
	return identities
}

func isSameFileAsAny(candidate os.FileInfo, identities []os.FileInfo) bool {
	for _, identity := range identities {
		if os.SameFile(candidate, identity) {
			return true
		}
	}
	return false
}
