package locale

import "strings"

// Func resolves a message key to display text for the active locale.
// Unresolvable keys come back verbatim so the UI always has something to show.
type Func func(key string) string

var catalogs = map[string]map[string]string{
	"en": {
		"section.welcome.label":        "Welcome",
		"section.welcome.tooltip":      "Getting started and sign-in",
		"section.welcome.header":       "Welcome to Paneldeck",
		"section.general.label":        "General",
		"section.general.tooltip":      "Everyday behavior",
		"section.general.header":       "General Settings",
		"section.account.label":        "Account",
		"section.account.tooltip":      "Sign-in and session",
		"section.account.header":       "Account",
		"section.advanced.label":       "Advanced",
		"section.advanced.tooltip":     "Paths, host, and maintenance",
		"section.advanced.header":      "Advanced",
		"section.experimental.label":   "Experimental",
		"section.experimental.tooltip": "Unstable host diagnostics",
		"section.experimental.header":  "Experimental",

		"setting.telemetry":   "Send anonymous usage data",
		"setting.autoupdate":  "Update the extension automatically",
		"setting.inlinehints": "Show inline hints while editing",

		"welcome.intro":        "Connect the editor host, tune your settings, and sign in to sync.",
		"welcome.steps":        "Get started",
		"welcome.step.general": "Review the general settings",
		"welcome.step.signin":  "Sign in to your account",
		"welcome.step.palette": "Open the command palette for everything else",

		"account.signedin":  "Signed in as",
		"account.signedout": "Not signed in",

		"advanced.reset.title": "Reset extension state",
		"advanced.reset.desc":  "Clears caches and stored UI state on the host.",

		"experimental.lastnav": "Last navigate target",
		"experimental.events":  "Host events received",

		"state.on":  "on",
		"state.off": "off",

		"host.connected": "Host connected",
		"host.offline":   "Host offline (changes will not persist)",
	},
	"de": {
		"section.welcome.label":        "Willkommen",
		"section.welcome.tooltip":      "Erste Schritte und Anmeldung",
		"section.welcome.header":       "Willkommen bei Paneldeck",
		"section.general.label":        "Allgemein",
		"section.general.tooltip":      "Alltagsverhalten",
		"section.general.header":       "Allgemeine Einstellungen",
		"section.account.label":        "Konto",
		"section.account.tooltip":      "Anmeldung und Sitzung",
		"section.account.header":       "Konto",
		"section.advanced.label":       "Erweitert",
		"section.advanced.tooltip":     "Pfade, Host und Wartung",
		"section.advanced.header":      "Erweitert",
		"section.experimental.label":   "Experimentell",
		"section.experimental.tooltip": "Instabile Host-Diagnose",
		"section.experimental.header":  "Experimentell",

		"setting.telemetry":   "Anonyme Nutzungsdaten senden",
		"setting.autoupdate":  "Erweiterung automatisch aktualisieren",
		"setting.inlinehints": "Inline-Hinweise beim Bearbeiten anzeigen",

		"welcome.intro":        "Verbinde den Editor-Host, passe deine Einstellungen an und melde dich an.",
		"welcome.steps":        "Erste Schritte",
		"welcome.step.general": "Überprüfe die allgemeinen Einstellungen",
		"welcome.step.signin":  "Melde dich bei deinem Konto an",
		"welcome.step.palette": "Öffne die Befehlspalette für alles Weitere",

		"account.signedin":  "Angemeldet als",
		"account.signedout": "Nicht angemeldet",

		"advanced.reset.title": "Erweiterungszustand zurücksetzen",
		"advanced.reset.desc":  "Löscht Caches und gespeicherten UI-Zustand auf dem Host.",

		"experimental.lastnav": "Letztes Navigationsziel",
		"experimental.events":  "Empfangene Host-Ereignisse",

		"state.on":  "an",
		"state.off": "aus",

		"host.connected": "Host verbunden",
		"host.offline":   "Host offline (Änderungen werden nicht gespeichert)",
	},
}

// New returns a lookup function for the given locale tag. Region subtags are
// ignored ("de-AT" resolves the "de" catalog); unknown locales fall back to
// English, and keys missing from every catalog resolve to the key itself.
func New(tag string) Func {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs["en"]
	}
	return func(key string) string {
		if text, ok := catalog[key]; ok {
			return text
		}
		if lang != "en" {
			if text, ok := catalogs["en"][key]; ok {
				return text
			}
		}
		return key
	}
}

// Supported lists the locale tags with a built-in catalog.
func Supported() []string {
	return []string{"en", "de"}
}
