// Package rotation issues short, epoch-scoped tokens for media assets.
//
// A token is stable for one epoch (ten minutes by default) and stops
// resolving as soon as the epoch rolls over. There is no sweeper goroutine:
// every Issue and Resolve prunes stale entries before doing its work.
package rotation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/slug"
)

// Config holds configuration for the rotation registry
type Config struct {
	// Interval is the epoch width
	Interval time.Duration
	// TokenLength is the generated token length
	TokenLength int
	// MaxAttempts caps collision retries per Issue
	MaxAttempts int
}

// DefaultConfig returns the default rotation configuration
func DefaultConfig() Config {
	return Config{
		Interval:    clock.DefaultEpochInterval,
		TokenLength: slug.DefaultLength,
		MaxAttempts: 20,
	}
}

// Registry maps short tokens to media assets for the current epoch
type Registry struct {
	epochs *clock.EpochClock
	codec  *slug.Codec
	cfg    Config
	logger *slog.Logger

	mu    sync.Mutex
	index *index
}

// NewRegistry creates a Registry
func NewRegistry(clk clock.Clock, codec *slug.Codec, cfg Config, logger *slog.Logger) *Registry {
	def := DefaultConfig()
	if cfg.TokenLength == 0 {
		cfg.TokenLength = def.TokenLength
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	return &Registry{
		epochs: clock.NewEpochClock(clk, cfg.Interval),
		codec:  codec,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "rotation")),
		index:  newIndex(),
	}
}

// Link is an issued token and the epoch it resolves in
type Link struct {
	Token     string
	Epoch     int64
	ExpiresAt time.Time
}

// Issue returns the token for the asset in the current epoch, minting one if needed.
// Repeated calls within an epoch return the same token.
func (r *Registry) Issue(ctx context.Context, bucket model.Bucket, fileName string) (string, error) {
	link, err := r.IssueLink(ctx, bucket, fileName)
	return link.Token, err
}

// IssueLink is Issue, also reporting the epoch the token belongs to and
// when that epoch ends
func (r *Registry) IssueLink(ctx context.Context, bucket model.Bucket, fileName string) (Link, error) {
	if err := validate(bucket, fileName); err != nil {
		return Link{}, err
	}
	if bucket.Kind == model.BucketShared {
		bucket.OwnerSlug = ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	epoch := r.epochs.Current()
	r.prune(epoch)

	key := keyFor(bucket.Kind, bucket.OwnerSlug, fileName, epoch)
	if token, ok := r.index.lookupByKey(key); ok {
		return r.link(token, epoch), nil
	}

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		token := r.codec.Generate(r.cfg.TokenLength)
		if _, taken := r.index.lookupByToken(token); taken {
			continue
		}

		r.index.insert(token, model.RotationPayload{
			Kind:      bucket.Kind,
			OwnerSlug: bucket.OwnerSlug,
			FileName:  fileName,
			Epoch:     epoch,
		})
		return r.link(token, epoch), nil
	}

	r.logger.Error("rotation token space exhausted",
		slog.String("file", fileName),
		slog.Int64("epoch", epoch),
		slog.Int("live_tokens", r.index.len()),
		slog.Int("attempts", r.cfg.MaxAttempts),
	)
	return Link{}, model.ErrTokenSpaceExhausted
}

// Resolve returns the payload for a token issued in the current epoch
func (r *Registry) Resolve(ctx context.Context, token string) (model.RotationPayload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	epoch := r.epochs.Current()
	r.prune(epoch)

	payload, ok := r.index.lookupByToken(token)
	if !ok || payload.Epoch != epoch {
		return model.RotationPayload{}, false
	}
	return payload, true
}

// CurrentEpoch returns the epoch tokens are currently issued in
func (r *Registry) CurrentEpoch() int64 {
	return r.epochs.Current()
}

func (r *Registry) link(token string, epoch int64) Link {
	end := time.UnixMilli((epoch + 1) * r.epochs.Interval().Milliseconds()).UTC()
	return Link{Token: token, Epoch: epoch, ExpiresAt: end}
}

// Len returns the number of live tokens (after pruning)
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune(r.epochs.Current())
	return r.index.len()
}

// prune must be called with mu held
func (r *Registry) prune(epoch int64) {
	if n := r.index.pruneExcept(epoch); n > 0 {
		r.logger.Debug("rotation tokens pruned",
			slog.Int64("epoch", epoch),
			slog.Int("pruned", n),
		)
	}
}

func validate(bucket model.Bucket, fileName string) error {
	switch bucket.Kind {
	case model.BucketShared:
	case model.BucketPrivate:
		if bucket.OwnerSlug == "" {
			return model.ErrInvalidBucket
		}
	default:
		return model.ErrInvalidBucket
	}
	if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, `/\`) {
		return model.ErrInvalidBucket
	}
	return nil
}
