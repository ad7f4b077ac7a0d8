package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// FileSystemLoader reads a bundle from a local directory.
type FileSystemLoader struct {
	mandatory       []string
	maxContentBytes int64
	pdfParser       PDFParserService
}

func NewFileSystemLoader(mandatory []string, maxContentBytes int64, pdfParser PDFParserService) *FileSystemLoader {
	return &FileSystemLoader{
		mandatory:       mandatory,
		maxContentBytes: maxContentBytes,
		pdfParser:       pdfParser,
	}
}

func (l *FileSystemLoader) Load(ctx context.Context, location string) (*models.ArtifactBundle, error) {
	root := filepath.Clean(location)
	info, err := os.Stat(root)
	if err != nil {
		return nil, errorf(ErrBundleUnavailable, "stat %s: %v", location, err)
	}
	if !info.IsDir() {
		return nil, errorf(ErrBundleUnavailable, "%s is not a directory", location)
	}

	bundle := &models.ArtifactBundle{
		Location: location,
		Files:    map[string]models.FileRecord{},
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		rec, err := l.readFile(p, name)
		if err != nil {
			return err
		}
		bundle.Files[name] = rec
		return nil
	})
	if walkErr != nil {
		return nil, errorf(ErrBundleUnavailable, "read %s: %v", location, walkErr)
	}

	markMissing(bundle, l.mandatory)
	return bundle, nil
}

func (l *FileSystemLoader) readFile(p, rel string) (models.FileRecord, error) {
	info, err := os.Stat(p)
	if err != nil {
		return models.FileRecord{}, err
	}
	rec, err := readRecord(rel, info.Size(), info.ModTime(), l.maxContentBytes, l.pdfParser, func() (contentSource, error) {
		return os.Open(p)
	})
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("read %s: %w", p, err)
	}
	return rec, nil
}
