package cli

import (
	"strings"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/disabled"
	"datepick/internal/locale"
	"datepick/internal/store"
)

// settings are the picker options after flags, env and config are merged.
type settings struct {
	cfg      *store.GlobalConfig
	lang     locale.Language
	mask     calendar.Mask
	persian  bool
	disabled disabled.Predicate
}

// resolveSettings merges langFlag/maskFlag (already defaulted from env) over
// the config file. A config mask for the other calendar is ignored.
func resolveSettings(app *App, langFlag, maskFlag string, persianDigits bool) (settings, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return settings{}, err
	}

	langText := strings.TrimSpace(langFlag)
	if langText == "" {
		langText = cfg.Language
	}
	lang, err := locale.Parse(langText)
	if err != nil {
		return settings{}, err
	}
	sys := lang.System()

	maskText := strings.TrimSpace(maskFlag)
	if maskText == "" && cfg.Format != "" {
		if m, err := calendar.CompileMask(cfg.Format); err == nil && m.System() == sys {
			maskText = cfg.Format
		}
	}
	if maskText == "" {
		maskText = calendar.DefaultMask(sys)
	}
	mask, err := calendar.CompileMask(maskText)
	if err != nil {
		return settings{}, err
	}

	pred, err := disabled.Compile(cfg.DisabledRules(), app.now())
	if err != nil {
		return settings{}, &store.ConfigError{Key: "disabled", Message: err.Error()}
	}

	return settings{
		cfg:      cfg,
		lang:     lang,
		mask:     mask,
		persian:  persianDigits || cfg.Digits == "persian",
		disabled: pred,
	}, nil
}

// parseDateArg reads a date flag with the active mask, then with either
// calendar's default mask.
func parseDateArg(flag, text string, mask calendar.Mask) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, nil
	}
	if t, ok := mask.Parse(text); ok {
		return t, nil
	}
	for _, m := range []string{calendar.GregorianMask, calendar.JalaaliMask} {
		if t, ok := calendar.ParseStrict(text, m); ok {
			return t, nil
		}
	}
	return time.Time{}, errDateArg(flag, text, mask.String())
}

// rememberedStart is the first day of the month last shown for cursor, or zero.
func rememberedStart(vs *store.ViewState, cursor string, sys calendar.System) time.Time {
	p, ok := vs.Position(cursor, sys.String())
	if !ok {
		return time.Time{}
	}
	t, err := calendar.ToInstant(calendar.Record{Day: 1, Month: p.Month, Year: p.Year}, sys)
	if err != nil {
		return time.Time{}
	}
	return t
}
