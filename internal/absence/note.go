package absence

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"SiteIntern-backend/internal/platform/logging"
)

//go:embed locales/active.*.json
var localeFS embed.FS

const noteMessageID = "AbsenceAutoNote"

var defaultNote = &i18n.Message{
	ID:    noteMessageID,
	Other: "Absence détectée automatiquement : aucun pointage enregistré pour cette journée",
}

// NoteFor returns the fixed human-readable note stored on detector-created
// absences, in lang (BCP 47). Unknown languages fall back to French.
func NoteFor(lang string, log *slog.Logger) string {
	log = logging.Component(log, "absence")

	bundle := i18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		log.Error("read embedded locales", logging.KeyErr, err)
		return defaultNote.Other
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			log.Warn("load locale", "file", e.Name(), logging.KeyErr, err)
		}
	}

	if _, err := language.Parse(lang); err != nil {
		log.Warn("unknown language, using default", "lang", lang, logging.KeyErr, err)
		lang = language.French.String()
	}
	msg, err := i18n.NewLocalizer(bundle, lang).Localize(&i18n.LocalizeConfig{DefaultMessage: defaultNote})
	if err != nil {
		log.Debug("note translation missing", "lang", lang, logging.KeyErr, err)
		return defaultNote.Other
	}
	return msg
}
