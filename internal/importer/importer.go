package importer

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNotCSV is returned for files that are not CSV text.
	ErrNotCSV = errors.New("not a CSV file")
	// ErrFileTooLarge is returned for files over the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// processedDir is the subdirectory of the import dir for processed CSVs.
const processedDir = "processed"

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// ReadStatement returns the text of the CSV file at path. It rejects files
// without a .csv extension, larger than maxSize bytes (0 = no limit), or
// whose content does not sniff as text.
func ReadStatement(path string, maxSize int64) (string, error) {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return "", fmt.Errorf("%w: %s", ErrNotCSV, name)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotCSV, name)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, name, info.Size(), maxSize)
	}

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, maxSize)
	}

	if len(data) > 0 && !strings.HasPrefix(http.DetectContentType(data), "text/") {
		return "", fmt.Errorf("%w: %s does not contain text", ErrNotCSV, name)
	}

	// UTF-16 exports carry a BOM; anything else is read as UTF-8.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(text), nil
}

// Scan returns CSV files directly inside dir. A missing dir yields nil.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
