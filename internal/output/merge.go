package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/scraper/internal/types"
	"github.com/temirov/scraper/internal/utils"
)

const (
	// MarkerPrefix starts every per-file marker line.
	MarkerPrefix = "/* ==== "
	// MarkerSuffix ends every per-file marker line.
	MarkerSuffix = " ==== */"
	// SeparatorLine closes every merged file.
	SeparatorLine = "------ next text file. ------"

	legendHeader = `/*
 * Merged project snapshot:
 * ------------------------
 * 1) First section = TREE STRUCTURE (folders + files).
 * 2) Second section = MERGED FILE CONTENTS.
 *    Each file begins with:
 *       /* ==== absolute/path/to/file ==== */
 *    And ends with:
 *       ------ next text file. ------
 */

`
	inputFolderFormat   = "Input folder: %s\n"
	outputFileFormat    = "Output file: %s\n"
	fileCountFormat     = "Found %d file(s).\n\n"
	treeSectionTitle    = "Tree Structure:\n"
	contentSectionTitle = "\nMerged Content:\n\n"

	decodePlaceholder     = "[Skipped unreadable file: non-UTF8 encoding]"
	readPlaceholderFormat = "[Error reading file: %v]"

	errorCreateDirectoryFormat = "%w: create directory %s: %w"
	errorCreateFileFormat      = "%w: create %s: %w"
	errorWriteFileFormat       = "%w: write %s: %w"
	errorCloseFileFormat       = "%w: close %s: %w"
)

// Document describes one merged output document.
type Document struct {
	InputRoot  string
	OutputPath string
	Tree       string
	Selection  types.SelectionSet
}

// MergeWriter writes the legend, the tree and the content of every selected file to the output path.
type MergeWriter struct {
	Logger *zap.Logger
	// ReadFile loads a selected file; os.ReadFile when nil.
	ReadFile func(path string) ([]byte, error)
}

// Merge (re)creates document.OutputPath and fills it. Unreadable or non-UTF-8 files are replaced by
// a placeholder line and reported in the returned failures; only output errors are fatal and wrap
// types.ErrWriteFailure.
func (mergeWriter *MergeWriter) Merge(document Document) (failures []types.FileFailure, err error) {
	logger := mergeWriter.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	readFile := mergeWriter.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	outputDirectory := filepath.Dir(document.OutputPath)
	if mkdirError := os.MkdirAll(outputDirectory, 0o755); mkdirError != nil {
		return nil, fmt.Errorf(errorCreateDirectoryFormat, types.ErrWriteFailure, outputDirectory, mkdirError)
	}
	// #nosec G304
	fileHandle, createError := os.Create(document.OutputPath)
	if createError != nil {
		return nil, fmt.Errorf(errorCreateFileFormat, types.ErrWriteFailure, document.OutputPath, createError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseFileFormat, types.ErrWriteFailure, document.OutputPath, closeError)
		}
	}()

	sink := &documentWriter{writer: bufio.NewWriter(fileHandle)}
	sink.printf("%s", legendHeader)
	sink.printf(inputFolderFormat, document.InputRoot)
	sink.printf(outputFileFormat, document.OutputPath)
	sink.printf(fileCountFormat, len(document.Selection))
	sink.printf("%s", treeSectionTitle)
	sink.printf("%s", document.Tree)
	sink.printf("%s", contentSectionTitle)

	for _, selectedPath := range document.Selection {
		sink.line(MarkerPrefix + selectedPath + MarkerSuffix)
		logger.Info("reading file", zap.String("path", selectedPath))
		if failure := writeFileContent(sink, selectedPath, readFile); failure != nil {
			logger.Warn("skipping file content",
				zap.String("path", failure.Path),
				zap.String("kind", string(failure.Kind)),
				zap.Error(failure.Err))
			failures = append(failures, *failure)
		}
		sink.printf("\n%s\n\n", SeparatorLine)
		if flushError := sink.flush(); flushError != nil {
			return failures, fmt.Errorf(errorWriteFileFormat, types.ErrWriteFailure, document.OutputPath, flushError)
		}
	}

	if flushError := sink.flush(); flushError != nil {
		return failures, fmt.Errorf(errorWriteFileFormat, types.ErrWriteFailure, document.OutputPath, flushError)
	}
	return failures, nil
}

func writeFileContent(sink *documentWriter, path string, readFile func(string) ([]byte, error)) *types.FileFailure {
	data, readError := readFile(path)
	if readError != nil {
		sink.line(fmt.Sprintf(readPlaceholderFormat, readError))
		return &types.FileFailure{Path: path, Kind: types.FailureRead, Err: fmt.Errorf("%w: %w", types.ErrReadFailure, readError)}
	}
	text, decodeError := utils.DecodeUTF8(data)
	if decodeError != nil {
		sink.line(decodePlaceholder)
		return &types.FileFailure{Path: path, Kind: types.FailureDecode, Err: fmt.Errorf("%w: %w", types.ErrDecodeFailure, decodeError)}
	}
	for _, contentLine := range utils.SplitLines(text) {
		sink.line(contentLine)
	}
	return nil
}

// documentWriter keeps the first write error and turns later writes into no-ops.
type documentWriter struct {
	writer *bufio.Writer
	err    error
}

func (sink *documentWriter) printf(format string, arguments ...interface{}) {
	if sink.err != nil {
		return
	}
	_, sink.err = fmt.Fprintf(sink.writer, format, arguments...)
}

func (sink *documentWriter) line(text string) {
	if sink.err != nil {
		return
	}
	if _, sink.err = io.WriteString(sink.writer, text); sink.err != nil {
		return
	}
	sink.err = sink.writer.WriteByte('\n')
}

func (sink *documentWriter) flush() error {
	if sink.err != nil {
		return sink.err
	}
	sink.err = sink.writer.Flush()
	return sink.err
}
