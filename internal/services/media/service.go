// Package media maps buckets to directories under the media root and
// serves the files in them.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/embed"
)

// SharedBucketID is the id of the bucket every user can read
const SharedBucketID = "shared"

// Config holds configuration for the media service
type Config struct {
	Root      string
	PublicURL string // scheme and host for absolute links; empty means use the request's host
}

// DefaultConfig returns default media configuration
func DefaultConfig() Config {
	return Config{Root: "media"}
}

// Asset describes one file in a bucket
type Asset struct {
	Name       string
	Size       int64
	MimeType   string
	Extension  string
	ModTime    time.Time
	BucketID   string
	BucketKind model.BucketKind
	URL        string // raw path, relative to the public URL
	EmbedURL   string // preview path, relative to the public URL
}

// Service resolves buckets and reads files from disk
type Service struct {
	root      string
	publicURL string
	logger    *slog.Logger
}

// New creates a media Service rooted at cfg.Root
func New(cfg Config, logger *slog.Logger) *Service {
	if cfg.Root == "" {
		cfg.Root = DefaultConfig().Root
	}
	return &Service{
		root:      cfg.Root,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger.With(slog.String("component", "media")),
	}
}

// Init creates the shared and users directories
func (s *Service) Init() error {
	for _, dir := range []string{filepath.Join(s.root, "shared"), filepath.Join(s.root, "users")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return nil
}

// Shared returns the shared bucket
func (s *Service) Shared() model.Bucket {
	return model.Bucket{
		ID:        SharedBucketID,
		Name:      "Shared Media",
		Kind:      model.BucketShared,
		Dir:       filepath.Join(s.root, "shared"),
		URLPrefix: "/media/shared",
	}
}

// UserBucket returns the private bucket for an owner slug. The slug is
// re-slugified so it cannot escape the users directory.
func (s *Service) UserBucket(ownerSlug string) model.Bucket {
	slug := Slugify(ownerSlug)
	return model.Bucket{
		ID:        "user-" + slug,
		Name:      slug + "'s Media",
		Kind:      model.BucketPrivate,
		OwnerSlug: slug,
		Dir:       filepath.Join(s.root, "users", slug),
		URLPrefix: "/media/users/" + url.PathEscape(slug),
	}
}

// BucketFor rebuilds a bucket from the fields carried by a rotation payload
func (s *Service) BucketFor(kind model.BucketKind, ownerSlug string) (model.Bucket, error) {
	switch kind {
	case model.BucketShared:
		return s.Shared(), nil
	case model.BucketPrivate:
		if ownerSlug == "" {
			return model.Bucket{}, model.ErrInvalidBucket
		}
		return s.UserBucket(ownerSlug), nil
	default:
		return model.Bucket{}, model.ErrInvalidBucket
	}
}

// OwnerSlug returns the private bucket slug for a user. Guests and
// non-canonical usernames have none.
func OwnerSlug(user model.User) (string, bool) {
	if user.IsGuest || !model.ValidUsername(user.Username) {
		return "", false
	}
	return Slugify(user.Username), true
}

// Buckets lists the buckets the user can use
func (s *Service) Buckets(user model.User) []model.Bucket {
	buckets := []model.Bucket{s.Shared()}
	if slug, ok := OwnerSlug(user); ok {
		b := s.UserBucket(slug)
		b.Name = user.Username + "'s Media"
		buckets = append(buckets, b)
	}
	return buckets
}

// Resolve maps a bucket id to a bucket the user may access.
// "" and "shared" are the shared bucket; "private", the user's slug and
// "user-<slug>" are their own bucket. Anything else is not found.
func (s *Service) Resolve(idOrSlug string, user model.User) (model.Bucket, error) {
	normalized := strings.ToLower(strings.TrimSpace(idOrSlug))
	if normalized == "" || normalized == SharedBucketID {
		return s.Shared(), nil
	}

	slug, ok := OwnerSlug(user)
	if !ok {
		if normalized == "private" || strings.HasPrefix(normalized, "user-") {
			return model.Bucket{}, model.ErrBucketDenied
		}
		return model.Bucket{}, model.ErrBucketNotFound
	}

	if normalized == "private" || normalized == slug || normalized == "user-"+slug {
		b := s.UserBucket(slug)
		b.Name = user.Username + "'s Media"
		return b, nil
	}
	return model.Bucket{}, model.ErrBucketNotFound
}

// BaseURL returns the origin links are built against
func (s *Service) BaseURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// CleanFileName rejects names that are empty or would leave the bucket directory
func CleanFileName(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", false
	}
	return name, true
}

// RawPath is the public path of the file's bytes
func RawPath(bucket model.Bucket, fileName string) string {
	return bucket.URLPrefix + "/" + url.PathEscape(fileName)
}

// EmbedPath is the public path of the file's preview page
func EmbedPath(bucket model.Bucket, fileName string) string {
	if bucket.Kind == model.BucketShared {
		return "/media/embed/shared/" + url.PathEscape(fileName)
	}
	return "/media/embed/users/" + url.PathEscape(bucket.OwnerSlug) + "/" + url.PathEscape(fileName)
}

func (s *Service) stat(bucket model.Bucket, fileName string) (string, fs.FileInfo, error) {
	name, ok := CleanFileName(fileName)
	if !ok {
		return "", nil, model.ErrFileNotFound
	}
	p := filepath.Join(bucket.Dir, name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, model.ErrFileNotFound
		}
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, model.ErrFileNotFound
	}
	return p, info, nil
}

func assetFor(bucket model.Bucket, info fs.FileInfo) Asset {
	return Asset{
		Name:       info.Name(),
		Size:       info.Size(),
		MimeType:   embed.MimeType(info.Name()),
		Extension:  strings.ToLower(filepath.Ext(info.Name())),
		ModTime:    info.ModTime(),
		BucketID:   bucket.ID,
		BucketKind: bucket.Kind,
		URL:        RawPath(bucket, info.Name()),
		EmbedURL:   EmbedPath(bucket, info.Name()),
	}
}

// IsReadable reports whether the file exists in the bucket and can be opened
func (s *Service) IsReadable(bucket model.Bucket, fileName string) bool {
	p, _, err := s.stat(bucket, fileName)
	if err != nil {
		return false
	}
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// List returns the bucket's files, newest first
func (s *Service) List(ctx context.Context, bucket model.Bucket) ([]Asset, error) {
	if err := os.MkdirAll(bucket.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	entries, err := os.ReadDir(bucket.Dir)
	if err != nil {
		return nil, fmt.Errorf("read bucket dir: %w", err)
	}

	assets := make([]Asset, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable media file",
				slog.String("bucket", bucket.ID),
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}
		assets = append(assets, assetFor(bucket, info))
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].ModTime.After(assets[j].ModTime)
	})
	return assets, nil
}

// Info describes a single file
func (s *Service) Info(ctx context.Context, bucket model.Bucket, fileName string) (Asset, error) {
	_, info, err := s.stat(bucket, fileName)
	if err != nil {
		return Asset{}, err
	}
	return assetFor(bucket, info), nil
}

// ServeFile writes the file's bytes, honouring Range and conditional headers
func (s *Service) ServeFile(w http.ResponseWriter, r *http.Request, bucket model.Bucket, fileName string) error {
	p, info, err := s.stat(bucket, fileName)
	if err != nil {
		return err
	}
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", embed.MimeType(info.Name()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

// FormatBytes renders a size the way the dashboard shows it, e.g. "1.5 KB"
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB", "PB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	s := fmt.Sprintf("%.2f", size)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + units[i]
}
