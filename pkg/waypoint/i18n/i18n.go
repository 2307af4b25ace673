// Package i18n localizes destination titles and navigation errors.
//
// English and Spanish messages are embedded. Destination titles use the message id
// "destination.<name>" and fall back to the name itself when no message exists.
package i18n

import (
	"embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

//go:embed locales/*.toml
var locales embed.FS

// Supported lists the embedded languages, default first.
var Supported = []language.Tag{language.English, language.Spanish}

// Localizer renders messages in one language.
type Localizer struct {
	tag       language.Tag
	localizer *goi18n.Localizer
}

// NewBundle returns a bundle holding the embedded messages.
func NewBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: %w", err)
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+entry.Name()); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", entry.Name(), err)
		}
	}
	return bundle, nil
}

// New returns a Localizer for lang, a BCP 47 tag such as "es" or "en-US". An empty or
// unsupported tag falls back to English.
func New(lang string) (*Localizer, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}

	tag := language.English
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("i18n: language %q: %w", lang, err)
		}
		matcher := language.NewMatcher(Supported)
		_, index, _ := matcher.Match(parsed)
		tag = Supported[index]
	}

	return &Localizer{
		tag:       tag,
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
	}, nil
}

// Language returns the tag messages are rendered in.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Title returns the localized title of dest.
func (l *Localizer) Title(dest router.Destination) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{MessageID: "destination." + string(dest)})
	if err != nil || msg == "" {
		return string(dest)
	}
	return msg
}

// Depth describes a stack depth, pluralized.
func (l *Localizer) Depth(n int) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    "stack.depth",
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	})
	if err != nil {
		return fmt.Sprintf("%d", n)
	}
	return msg
}

// Describe returns a user facing description of a navigation error.
func (l *Localizer) Describe(err error) string {
	if err == nil {
		return ""
	}

	data := map[string]any{"Error": err.Error()}
	var navErr *router.NavigationError
	if errors.As(err, &navErr) {
		data["Destination"] = string(navErr.Destination)
	}

	id := "error.unknown"
	switch {
	case errors.Is(err, router.ErrNotAttached):
		id = "error.not_attached"
	case errors.Is(err, router.ErrIllegalDestination):
		id = "error.illegal_destination"
	case errors.Is(err, router.ErrMissingArgs):
		id = "error.missing_args"
	case errors.Is(err, router.ErrCannotGoBack):
		id = "error.cannot_go_back"
	case errors.Is(err, router.ErrEntryClosed):
		id = "error.entry_closed"
	}

	msg, lerr := l.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if lerr != nil {
		return err.Error()
	}
	return msg
}
