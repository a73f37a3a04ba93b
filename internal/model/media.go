package model

// BucketKind distinguishes the shared bucket from per-user buckets
type BucketKind string

const (
	BucketShared  BucketKind = "shared"
	BucketPrivate BucketKind = "private"
)

// Bucket is a storage scope for uploaded media
type Bucket struct {
	ID        string
	Name      string
	Kind      BucketKind
	OwnerSlug string // required for private buckets, empty for shared
	Dir       string // directory on disk
	URLPrefix string // public path prefix for raw files
}

// RotationPayload is what a short-link token resolves to
type RotationPayload struct {
	Kind      BucketKind
	OwnerSlug string
	FileName  string
	Epoch     int64
}

// EmbedPrefs are operator-configured defaults for preview pages
type EmbedPrefs struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Color string `json:"color"`
}
