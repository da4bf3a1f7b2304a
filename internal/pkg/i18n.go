package pkg

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Message ids shown to users.
const (
	MsgLoginFailed      = "login.failed"
	MsgLoginRequired    = "login.required"
	MsgSignupBlank      = "signup.blank"
	MsgSignupTaken      = "signup.taken"
	MsgSignupDone       = "signup.done"
	MsgSignupTooLong    = "signup.too_long"
	MsgPostBlank        = "post.blank"
	MsgPostTooLong      = "post.too_long"
	MsgPostCreated      = "post.created"
	MsgPostUpdated      = "post.updated"
	MsgPostDeleted      = "post.deleted"
	MsgStoreUnavailable = "store.unavailable"
	MsgLoggedOut        = "logout.done"
	MsgForbidden        = "error.forbidden"
	MsgNotFound         = "error.not_found"
	MsgInternal         = "error.internal"
	MsgPageNewPost      = "page.new_post"
	MsgPageEditPost     = "page.edit_post"
)

//go:embed locales/*.json
var localeData embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
)

func loadBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)
		ents, err := localeData.ReadDir("locales")
		if err != nil {
			log.WithError(err).Error("Failed to read locale data")
			return
		}
		for _, ent := range ents {
			if _, err := b.LoadMessageFileFS(localeData, "locales/"+ent.Name()); err != nil {
				log.WithError(err).WithField("file", ent.Name()).Error("Failed to load locale file")
				return
			}
		}
		bundle = b
	})
	return bundle
}

// L 取本地化文案，找不到时回退到英文，再不行就返回 id 本身
func L(locale, msgID string) string {
	b := loadBundle()
	if b == nil {
		return msgID
	}

	msg, err := i18n.NewLocalizer(b, locale).Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		log.WithError(err).Warn("Error loading localized message. Fallback to \"en\"")
		msg, err = i18n.NewLocalizer(b, "en").Localize(&i18n.LocalizeConfig{MessageID: msgID})
		if err != nil {
			log.WithError(err).Error("Error loading localized message (fallback)")
			return msgID
		}
	}
	return msg
}
