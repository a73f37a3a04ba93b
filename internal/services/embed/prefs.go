package embed

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage"
)

const (
	// DefaultColor is the theme colour used when none is configured
	DefaultColor = "#151521"
	// DefaultDescription is the description used when none is configured
	DefaultDescription = "Embedded media"

	maxTitleLen = 120
	maxDescLen  = 500
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb colour
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// Sanitize trims and truncates text fields and drops an invalid colour
func Sanitize(p model.EmbedPrefs) model.EmbedPrefs {
	color := strings.TrimSpace(p.Color)
	if !ValidColor(color) {
		color = ""
	}
	return model.EmbedPrefs{
		Title: truncate(strings.TrimSpace(p.Title), maxTitleLen),
		Desc:  truncate(strings.TrimSpace(p.Desc), maxDescLen),
		Color: color,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// PrefsService stores the operator's preview defaults
type PrefsService struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewPrefsService creates a PrefsService
func NewPrefsService(storage storage.Storage, logger *slog.Logger) *PrefsService {
	return &PrefsService{storage: storage, logger: logger}
}

// Get returns the stored defaults, or empty defaults if none were saved
func (s *PrefsService) Get(ctx context.Context) (model.EmbedPrefs, error) {
	prefs, err := s.storage.GetEmbedPrefs(ctx)
	if err != nil {
		if errors.Is(err, model.ErrEmbedPrefsNotFound) {
			return model.EmbedPrefs{Color: DefaultColor}, nil
		}
		return model.EmbedPrefs{}, err
	}
	return *prefs, nil
}

// Set sanitizes and persists new defaults
func (s *PrefsService) Set(ctx context.Context, prefs model.EmbedPrefs) (model.EmbedPrefs, error) {
	clean := Sanitize(prefs)
	if clean.Color == "" {
		clean.Color = DefaultColor
	}
	if err := s.storage.SaveEmbedPrefs(ctx, &clean); err != nil {
		s.logger.Error("failed to save embed prefs", slog.String("error", err.Error()))
		return model.EmbedPrefs{}, err
	}
	s.logger.Info("embed prefs updated", slog.String("title", clean.Title), slog.String("color", clean.Color))
	return clean, nil
}
