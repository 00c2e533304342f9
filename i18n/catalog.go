package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLanguage is the canonical locale of the registration flow.
var BaseLanguage = language.Spanish

// Catalog resolves message keys for the supported locales.
type Catalog struct {
	builder   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// NewCatalog builds a catalog from the embedded message tables.
func NewCatalog() (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(BaseLanguage))
	supported := []language.Tag{BaseLanguage}
	for tag := range messages {
		if tag != BaseLanguage {
			supported = append(supported, tag)
		}
	}
	for tag, table := range messages {
		for key, msg := range table {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: set %s/%s: %w", tag, key, err)
			}
		}
	}
	return &Catalog{
		builder:   b,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Match picks the best supported locale for an Accept-Language header.
// An empty or unparsable header yields BaseLanguage.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return BaseLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return BaseLanguage
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return BaseLanguage
	}
	return c.supported[idx]
}

// Localizer returns a Localizer bound to tag.
func (c *Catalog) Localizer(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Localizer renders messages for a single locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// Text returns the message for key, or key itself when it is unknown.
func (l *Localizer) Text(key string) string {
	return l.printer.Sprintf(key)
}

// Language returns the locale of the localizer.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Spanish returns a localizer for the base locale of the default catalog.
func Spanish() *Localizer {
	return Default().Localizer(BaseLanguage)
}
