package blob

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// indexDir holds one JSON record per blob, mirroring the key layout, so
// exported files stay untouched in the root.
const indexDir = ".index"

// Filesystem is a Store rooted at a local directory.
type Filesystem struct {
	root string
}

// NewFilesystem returns a store rooted at root, creating the directory.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, errors.New("filesystem blob store requires a root")
	}
	if err := os.MkdirAll(filepath.Join(root, indexDir), 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

// record is the index entry of one blob.
type record struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SHA256      string            `json:"sha256"`
	Size        int64             `json:"size"`
	Written     time.Time         `json:"written"`
}

// cleanKey normalizes key to a relative slash path inside the root. Keys
// that escape the root or land in the index are rejected.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("key %q is absolute", key)
	}
	k := path.Clean(filepath.ToSlash(key))
	if k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("key %q leaves the store", key)
	}
	if k == indexDir || strings.HasPrefix(k, indexDir+"/") {
		return "", fmt.Errorf("key %q is reserved", key)
	}
	return k, nil
}

func (f *Filesystem) dataPath(k string) string {
	return filepath.Join(f.root, filepath.FromSlash(k))
}

func (f *Filesystem) indexPath(k string) string {
	return filepath.Join(f.root, indexDir, filepath.FromSlash(k)+".json")
}

func (f *Filesystem) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	k, err := cleanKey(key)
	if err != nil {
		return Info{}, fmt.Errorf("put blob: %w", err)
	}
	dst := f.dataPath(k)
	if _, err := os.Stat(dst); err == nil {
		return Info{}, fmt.Errorf("put blob %s: %w", k, ErrExists)
	}
	for _, dir := range []string{filepath.Dir(dst), filepath.Dir(f.indexPath(k))} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Info{}, fmt.Errorf("put blob %s: %w", k, err)
		}
	}

	// Write next to the destination and rename so readers never see a
	// partial export.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".partial-*")
	if err != nil {
		return Info{}, fmt.Errorf("put blob %s: %w", k, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	sum := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(tmp, sum), r)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return Info{}, fmt.Errorf("write blob %s: %w", k, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return Info{}, fmt.Errorf("write blob %s: %w", k, err)
	}

	rec := record{
		ContentType: opts.ContentType,
		Metadata:    cloneMetadata(opts.Metadata),
		SHA256:      hex.EncodeToString(sum.Sum(nil)),
		Size:        n,
		Written:     time.Now().UTC(),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return Info{}, fmt.Errorf("index blob %s: %w", k, err)
	}
	if err := os.WriteFile(f.indexPath(k), b, 0o644); err != nil {
		return Info{}, fmt.Errorf("index blob %s: %w", k, err)
	}
	return f.info(k, rec), nil
}

func (f *Filesystem) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := f.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	file, err := os.Open(f.dataPath(info.Key))
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, nil, fmt.Errorf("get blob %s: %w", info.Key, ErrNotFound)
	}
	if err != nil {
		return Info{}, nil, fmt.Errorf("get blob %s: %w", info.Key, err)
	}
	return info, file, nil
}

func (f *Filesystem) Head(_ context.Context, key string) (Info, error) {
	k, err := cleanKey(key)
	if err != nil {
		return Info{}, fmt.Errorf("head blob: %w", err)
	}
	rec, err := readRecord(f.indexPath(k))
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, fmt.Errorf("head blob %s: %w", k, ErrNotFound)
	}
	if err != nil {
		return Info{}, err
	}
	return f.info(k, rec), nil
}

func (f *Filesystem) Delete(_ context.Context, key string) (bool, error) {
	k, err := cleanKey(key)
	if err != nil {
		return false, fmt.Errorf("delete blob: %w", err)
	}
	err = os.Remove(f.dataPath(k))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete blob %s: %w", k, err)
	}
	if err := os.Remove(f.indexPath(k)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return true, fmt.Errorf("delete blob index %s: %w", k, err)
	}
	return true, nil
}

// List walks the index, so files dropped into the root by hand are not
// reported.
func (f *Filesystem) List(_ context.Context, prefix string) ([]Info, error) {
	index := filepath.Join(f.root, indexDir)
	infos := []Info{}
	err := filepath.WalkDir(index, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(index, p)
		if err != nil {
			return err
		}
		k, ok := strings.CutSuffix(filepath.ToSlash(rel), ".json")
		if !ok || !strings.HasPrefix(k, prefix) {
			return nil
		}
		rec, err := readRecord(p)
		if err != nil {
			return err
		}
		infos = append(infos, f.info(k, rec))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	slices.SortFunc(infos, func(a, b Info) int { return cmp.Compare(a.Key, b.Key) })
	return infos, nil
}

// PresignURL returns a file URL; local files need no signature.
func (f *Filesystem) PresignURL(_ context.Context, key string, _ time.Duration) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", fmt.Errorf("presign blob: %w", err)
	}
	return f.fileURL(k), nil
}

func (f *Filesystem) info(k string, rec record) Info {
	return Info{
		Key:          k,
		Size:         rec.Size,
		ContentType:  rec.ContentType,
		ETag:         rec.SHA256,
		Metadata:     cloneMetadata(rec.Metadata),
		LastModified: rec.Written,
		URL:          f.fileURL(k),
	}
}

func (f *Filesystem) fileURL(k string) string {
	p := f.dataPath(k)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}

func readRecord(p string) (record, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return record{}, fmt.Errorf("decode blob index %s: %w", p, err)
	}
	return rec, nil
}
