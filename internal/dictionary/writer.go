package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/whittle/internal/domain"
)

// Writer persists one named, classified dictionary.
type Writer interface {
	Write(name, content string, category domain.DictionaryType) error
}

// Reporter receives a confirmation for every dictionary written to disk.
type Reporter interface {
	DictionaryWritten(name string, category domain.DictionaryType, path string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(name string, category domain.DictionaryType, path string)

func (f ReporterFunc) DictionaryWritten(name string, category domain.DictionaryType, path string) {
	f(name, category, path)
}

// MultiReporter fans a confirmation out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) DictionaryWritten(name string, category domain.DictionaryType, path string) {
	for _, r := range m {
		if r != nil {
			r.DictionaryWritten(name, category, path)
		}
	}
}

// FileWriter writes dictionaries into the directory chosen by a Classifier,
// replacing whatever was there before.
type FileWriter struct {
	classifier Classifier
	reporter   Reporter
}

// NewFileWriter creates a FileWriter. reporter may be nil.
func NewFileWriter(classifier Classifier, reporter Reporter) *FileWriter {
	return &FileWriter{classifier: classifier, reporter: reporter}
}

func (w *FileWriter) Write(name, content string, category domain.DictionaryType) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(w.classifier.TargetDir(category), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, name, err)
	}
	if w.reporter != nil {
		w.reporter.DictionaryWritten(name, category, path)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Trim(name, ".") == "" {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
