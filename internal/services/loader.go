package services

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// BundleLoader resolves a location into an in-memory bundle.
type BundleLoader interface {
	Load(ctx context.Context, location string) (*models.ArtifactBundle, error)
}

// Extensions whose content is read as text.
var textExtensions = map[string]bool{
	".md": true, ".txt": true, ".html": true, ".htm": true, ".css": true,
	".js": true, ".mjs": true, ".jsx": true, ".ts": true, ".tsx": true,
	".vue": true, ".json": true, ".yaml": true, ".yml": true, ".py": true,
	".go": true, ".mod": true, ".toml": true, ".xml": true, ".svg": true,
	".sh": true, ".log": true, ".csv": true, ".sql": true, ".env": true,
}

func isTextFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return true
	}
	return textExtensions[ext]
}

// inHiddenDir reports whether a slash-separated relative name sits under a
// directory whose name starts with a dot, such as .git/.
func inHiddenDir(name string) bool {
	dir := path.Dir(name)
	if dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// contentSource is satisfied by *os.File and *minio.Object.
type contentSource interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// readRecord builds the FileRecord of one existing file. Both loaders use it,
// so a bundle gets the same records from a directory and from a bucket.
func readRecord(
	name string,
	size int64,
	modified time.Time,
	limit int64,
	pdfParser PDFParserService,
	open func() (contentSource, error),
) (models.FileRecord, error) {
	modified = modified.UTC()
	rec := models.FileRecord{Exists: true, Size: &size, LastModified: &modified}

	isPDF := strings.EqualFold(path.Ext(name), ".pdf")
	if isPDF && pdfParser == nil || !isPDF && !isTextFile(name) {
		return rec, nil
	}

	src, err := open()
	if err != nil {
		return models.FileRecord{}, err
	}
	defer src.Close()

	if isPDF {
		// An unreadable PDF still exists; it just carries no content.
		if text, err := pdfParser.ExtractText(src, size); err == nil {
			rec.Content = &text
		}
		return rec, nil
	}

	text, truncated, err := readContent(src, limit)
	if err != nil {
		return models.FileRecord{}, err
	}
	rec.Content = &text
	rec.Truncated = truncated
	return rec, nil
}

// readContent reads at most limit bytes, or everything when limit <= 0, and
// reports whether anything was left unread.
func readContent(r io.Reader, limit int64) (string, bool, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		return string(data), false, err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", false, err
	}
	if int64(len(data)) > limit {
		return string(data[:limit]), true, nil
	}
	return string(data), false, nil
}

// markMissing inserts absent mandatory files so their absence is explicit.
func markMissing(bundle *models.ArtifactBundle, mandatory []string) {
	for _, name := range mandatory {
		if _, ok := bundle.Files[name]; !ok {
			bundle.Files[name] = models.MissingFile()
		}
	}
}

// RoutingLoader dispatches s3:// locations to the object store and
// everything else to the filesystem.
type RoutingLoader struct {
	fs     BundleLoader
	object BundleLoader
}

func NewRoutingLoader(fs BundleLoader, object BundleLoader) *RoutingLoader {
	return &RoutingLoader{fs: fs, object: object}
}

func (r *RoutingLoader) Load(ctx context.Context, location string) (*models.ArtifactBundle, error) {
	if strings.HasPrefix(location, s3Scheme) {
		if r.object == nil {
			return nil, errorf(ErrBundleUnavailable, "object storage is not configured for %s", location)
		}
		return r.object.Load(ctx, location)
	}
	return r.fs.Load(ctx, location)
}
