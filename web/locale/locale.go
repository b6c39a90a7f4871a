// Package locale translates client-facing messages. The language comes from
// the "lang" cookie or the Accept-Language header; English is the default.
package locale

import (
	"embed"
	"io/fs"
	"sync"

	"github.com/ortosupport/course-assistant/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var translationFS embed.FS

const (
	localizerKey = "LOCALIZER"
	langKey      = "LANG"
	langCookie   = "lang"
)

// Supported lists the languages with translation files. The first is the default.
var Supported = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}

var (
	matcher    = language.NewMatcher(Supported)
	bundleOnce sync.Once
	i18nBundle *i18n.Bundle
)

func bundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		i18nBundle = i18n.NewBundle(Supported[0])
		i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		if err := parseTranslationFiles(translationFS, i18nBundle); err != nil {
			logger.Error("load translations:", err)
		}
	})
	return i18nBundle
}

func parseTranslationFiles(i18nFS embed.FS, b *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := i18nFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = b.ParseMessageFileBytes(data, path)
		return err
	})
}

// Negotiate picks the supported language best matching the given
// Accept-Language style values, tried in order.
func Negotiate(values ...string) language.Tag {
	for _, v := range values {
		if v == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(v)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := matcher.Match(tags...); conf != language.No {
			return Supported[idx]
		}
	}
	return Supported[0]
}

// LocalizerMiddleware attaches the request language and its localizer.
func LocalizerMiddleware() gin.HandlerFunc {
	b := bundle()
	return func(c *gin.Context) {
		var cookieLang string
		if cookie, err := c.Request.Cookie(langCookie); err == nil {
			cookieLang = cookie.Value
		}
		tag := Negotiate(cookieLang, c.GetHeader("Accept-Language"))
		c.Set(langKey, tag)
		c.Set(localizerKey, i18n.NewLocalizer(b, tag.String()))
		c.Next()
	}
}

// Lang returns the request language, or the default one.
func Lang(c *gin.Context) language.Tag {
	if v, ok := c.Get(langKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return Supported[0]
}

// T translates msg, which is both the message id and its English text.
// Unknown messages are returned unchanged.
func T(c *gin.Context, msg string) string {
	v, ok := c.Get(localizerKey)
	if !ok {
		return msg
	}
	localizer, ok := v.(*i18n.Localizer)
	if !ok {
		return msg
	}
	out, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: msg, Other: msg},
	})
	if out == "" {
		if err != nil {
			logger.Debugf("localize %q: %v", msg, err)
		}
		return msg
	}
	return out
}
