package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"portfolio-site/pkg/logfields"
)

// PublishOptions controls an upload of the generated site to a storage bucket
type PublishOptions struct {
	Bucket string
	Prefix string
	// CleanURLs stores HTML pages without their .html suffix so extension-free
	// production links resolve
	CleanURLs bool
	DryRun    bool
}

// PublishSummary reports the outcome of a publish run
type PublishSummary struct {
	Files     int
	Uploaded  int
	Unchanged int
	Missing   int
}

// PublishFile is one local file and the object it is stored as
type PublishFile struct {
	Local       string
	Object      string
	ContentType string
}

// PublishFiles lists the generated pages, the index page, every manifest and
// every gallery image with their object names
func (s *Service) PublishFiles(opts PublishOptions) []PublishFile {
	var files []PublishFile
	seen := make(map[string]bool)
	add := func(local, rel string, page bool) {
		object := objectName(opts.Prefix, rel, page && opts.CleanURLs)
		if seen[object] {
			return
		}
		seen[object] = true
		files = append(files, PublishFile{
			Local:       local,
			Object:      object,
			ContentType: contentType(rel),
		})
	}

	for _, page := range s.config.Pages {
		add(s.config.OutputPath(page.Output), page.Output, true)
	}
	add(s.config.OutputPath(s.config.IndexOutput), s.config.IndexOutput, true)

	trees := []struct{ dir, base string }{
		{s.config.DataDir, s.siteRelative(s.config.DataDir)},
		{s.config.ImagesDir, strings.Trim(s.config.ImagesURLPrefix, "/")},
	}
	for _, tree := range trees {
		_ = filepath.WalkDir(tree.dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(err))
				return nil
			}
			if d.IsDir() || d.Name() == s.config.MetadataFile {
				return nil
			}
			rel, err := filepath.Rel(tree.dir, p)
			if err != nil {
				return nil
			}
			add(p, filepath.Join(tree.base, rel), false)
			return nil
		})
	}
	return files
}

// siteRelative returns dir relative to the output directory, or to the working
// directory when it lies outside the output tree
func (s *Service) siteRelative(dir string) string {
	for _, root := range []string{s.config.OutputDir, "."} {
		if rel, ok := within(root, dir); ok {
			return rel
		}
	}
	return filepath.Base(dir)
}

func within(root, dir string) (string, bool) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(rootAbs, dirAbs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// objectName maps a site-relative path to its bucket object name
func objectName(prefix, rel string, cleanURL bool) string {
	name := strings.TrimPrefix(path.Clean(filepath.ToSlash(rel)), "./")
	name = strings.TrimPrefix(name, "/")
	if cleanURL && strings.HasSuffix(name, ".html") {
		switch path.Base(name) {
		case "index.html", "404.html":
		default:
			name = strings.TrimSuffix(name, ".html")
		}
	}
	if prefix != "" {
		name = path.Join(strings.Trim(prefix, "/"), name)
	}
	return name
}

func contentType(rel string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(rel))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// fileMD5 returns the MD5 digest of a local file, as stored in object attributes
func fileMD5(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Publish uploads the generated site, skipping objects whose content already matches
func (s *Service) Publish(ctx context.Context, opts PublishOptions) (PublishSummary, error) {
	var summary PublishSummary
	if opts.Bucket == "" {
		return summary, errors.New("bucket name not set")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Warn("Error closing storage client", logfields.Error(err))
		}
	}()

	bucket := client.Bucket(opts.Bucket)

	existing, err := listObjectHashes(ctx, bucket, strings.Trim(opts.Prefix, "/"))
	if err != nil {
		return summary, err
	}

	for _, file := range s.PublishFiles(opts) {
		summary.Files++

		sum, err := fileMD5(file.Local)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Warn("Generated file missing, not published", logfields.Path(file.Local))
				summary.Missing++
				continue
			}
			return summary, fmt.Errorf("failed to hash %s: %w", file.Local, err)
		}

		if remote, ok := existing[file.Object]; ok && bytes.Equal(remote, sum) {
			summary.Unchanged++
			continue
		}

		if opts.DryRun {
			fmt.Printf("  would upload %s -> gs://%s/%s\n", file.Local, opts.Bucket, file.Object)
			summary.Uploaded++
			continue
		}

		if err := uploadFile(ctx, bucket, file); err != nil {
			return summary, err
		}
		slog.Info("Uploaded", logfields.Path(file.Local), slog.String("object", file.Object))
		summary.Uploaded++
	}

	return summary, nil
}

// listObjectHashes maps object names under prefix to their MD5 digests
func listObjectHashes(ctx context.Context, bucket *storage.BucketHandle, prefix string) (map[string][]byte, error) {
	hashes := make(map[string][]byte)
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		hashes[attrs.Name] = attrs.MD5
	}
	return hashes, nil
}

func uploadFile(ctx context.Context, bucket *storage.BucketHandle, file PublishFile) error {
	f, err := os.Open(file.Local)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	writer := bucket.Object(file.Object).NewWriter(ctx)
	writer.ContentType = file.ContentType

	if _, err := io.Copy(writer, f); err != nil {
		writer.Close()
		return fmt.Errorf("Writer.Write %s: %w", file.Object, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close %s: %w", file.Object, err)
	}
	return nil
}
