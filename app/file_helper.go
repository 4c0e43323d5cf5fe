package app

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/ktscan/domain"
)

// defaultExtensions are accepted when no extensions are configured
var defaultExtensions = []string{".kt", ".kts"}

var _ domain.FileReader = (*FileHelper)(nil)

// FileHelper provides file operation utilities
type FileHelper struct {
	extensions []string
	excluded   *ignore.GitIgnore
}

// NewFileHelper creates a FileHelper accepting .kt and .kts files
func NewFileHelper() *FileHelper {
	return NewFileHelperWithPatterns(nil, nil)
}

// NewFileHelperWithPatterns creates a FileHelper with accepted extensions and
// gitignore-style exclusion patterns
func NewFileHelperWithPatterns(extensions, excludePatterns []string) *FileHelper {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}

	helper := &FileHelper{extensions: extensions}
	if len(excludePatterns) > 0 {
		helper.excluded = ignore.CompileIgnoreLines(excludePatterns...)
	}
	return helper
}

// IsValidKotlinFile checks the extension and exclusion patterns of path
func (h *FileHelper) IsValidKotlinFile(path string) bool {
	return h.hasKotlinExtension(path) && !h.IsExcluded(path)
}

// IsExcluded reports whether path matches an exclusion pattern
func (h *FileHelper) IsExcluded(path string) bool {
	if h.excluded == nil {
		return false
	}
	return h.excluded.MatchesPath(filepath.ToSlash(filepath.Clean(path)))
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// hasKotlinExtension checks the file extension case-insensitively
func (h *FileHelper) hasKotlinExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, accepted := range h.extensions {
		if ext == strings.ToLower(accepted) {
			return true
		}
	}
	return false
}
