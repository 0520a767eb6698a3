package commands

import (
	"path"
	"strings"

	"github.com/temirov/scraper/internal/utils"
)

// FileVerdict explains why a file was or was not selected.
type FileVerdict string

const (
	// VerdictIncluded marks a selected file.
	VerdictIncluded FileVerdict = "included"
	// VerdictUnlistedType marks a file whose extension and name are not configured.
	VerdictUnlistedType FileVerdict = "extension not included"
	// VerdictExcludedFolder marks a file beneath an excluded folder.
	VerdictExcludedFolder FileVerdict = "inside excluded folder"
	// VerdictExcludedPattern marks a file matching an excluded glob.
	VerdictExcludedPattern FileVerdict = "matches excluded pattern"

	extensionSeparator = "."
	// globMetaCharacters are escaped so that only * and ? keep a wildcard meaning.
	globMetaCharacters = `\[]`
)

// SelectionRules configures a PatternMatcher.
type SelectionRules struct {
	IncludeExtensions     []string
	IncludeFilenames      []string
	ExcludeFolders        []string
	ExcludeFilePatterns   []string
	CaseSensitivePatterns bool
}

// PatternMatcher decides which paths participate in the tree and the merge.
// Paths are relative to the scanned root and use the platform separator or forward slashes.
type PatternMatcher struct {
	extensionSuffixes     []string
	alwaysIncluded        map[string]struct{}
	excludedFolders       map[string]struct{}
	excludedPatterns      []string
	caseSensitivePatterns bool
}

// NewPatternMatcher prepares the rules for repeated evaluation.
func NewPatternMatcher(rules SelectionRules) *PatternMatcher {
	matcher := &PatternMatcher{
		alwaysIncluded:        map[string]struct{}{},
		excludedFolders:       map[string]struct{}{},
		caseSensitivePatterns: rules.CaseSensitivePatterns,
	}
	for _, extension := range utils.NormalizeExtensions(rules.IncludeExtensions) {
		matcher.extensionSuffixes = append(matcher.extensionSuffixes, extensionSeparator+extension)
	}
	for _, filename := range utils.TrimNonEmpty(rules.IncludeFilenames) {
		matcher.alwaysIncluded[strings.ToLower(filename)] = struct{}{}
	}
	for _, folder := range utils.TrimNonEmpty(rules.ExcludeFolders) {
		matcher.excludedFolders[strings.ToLower(folder)] = struct{}{}
	}
	for _, pattern := range utils.DeduplicatePatterns(utils.TrimNonEmpty(rules.ExcludeFilePatterns)) {
		if !matcher.caseSensitivePatterns {
			pattern = strings.ToLower(pattern)
		}
		matcher.excludedPatterns = append(matcher.excludedPatterns, escapeGlob(pattern))
	}
	return matcher
}

// IncludeFile reports whether the file at relativePath is selected for merging.
func (matcher *PatternMatcher) IncludeFile(relativePath string) bool {
	return matcher.FileVerdict(relativePath) == VerdictIncluded
}

// FileVerdict evaluates the file rules in order: type, ancestor folders, name patterns.
func (matcher *PatternMatcher) FileVerdict(relativePath string) FileVerdict {
	segments := utils.PathSegments(relativePath)
	if len(segments) == 0 {
		return VerdictUnlistedType
	}
	filename := segments[len(segments)-1]
	if !matcher.matchesType(filename) {
		return VerdictUnlistedType
	}
	if matcher.containsExcludedFolder(segments[:len(segments)-1]) {
		return VerdictExcludedFolder
	}
	if matcher.matchesExcludedPattern(filename) {
		return VerdictExcludedPattern
	}
	return VerdictIncluded
}

// ExcludeDirectory reports whether any segment of the directory path names an excluded folder.
// The walker prunes the whole subtree when this holds.
func (matcher *PatternMatcher) ExcludeDirectory(relativePath string) bool {
	return matcher.containsExcludedFolder(utils.PathSegments(relativePath))
}

func (matcher *PatternMatcher) matchesType(filename string) bool {
	lowerFilename := strings.ToLower(filename)
	if _, listed := matcher.alwaysIncluded[lowerFilename]; listed {
		return true
	}
	for _, suffix := range matcher.extensionSuffixes {
		if strings.HasSuffix(lowerFilename, suffix) {
			return true
		}
	}
	return false
}

func (matcher *PatternMatcher) containsExcludedFolder(segments []string) bool {
	for _, segment := range segments {
		if _, excluded := matcher.excludedFolders[strings.ToLower(segment)]; excluded {
			return true
		}
	}
	return false
}

func (matcher *PatternMatcher) matchesExcludedPattern(filename string) bool {
	candidate := filename
	if !matcher.caseSensitivePatterns {
		candidate = strings.ToLower(filename)
	}
	for _, pattern := range matcher.excludedPatterns {
		isMatched, matchError := path.Match(pattern, candidate)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

func escapeGlob(pattern string) string {
	var builder strings.Builder
	for _, character := range pattern {
		if strings.ContainsRune(globMetaCharacters, character) {
			builder.WriteRune('\\')
		}
		builder.WriteRune(character)
	}
	return builder.String()
}
