package cli

import (
	"ytce/internal/config"
	"ytce/internal/storage"
	"ytce/internal/youtube"
)

// runOpts is the per-command view of config file, flags and their defaults.
type runOpts struct {
	cfg      config.Config
	format   storage.Format
	sort     youtube.SortOrder
	language string
}

// resolveOpts layers flag values over the loaded config. Empty flags fall
// back to the config file, which falls back to built-in defaults.
func resolveOpts(formatFlag, sortFlag, langFlag string) (runOpts, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return runOpts{}, err
	}

	format, err := storage.ParseFormat(formatFlag)
	if err != nil {
		return runOpts{}, userErrf("%v", err)
	}

	sort := sortFlag
	if sort == "" {
		sort = cfg.CommentSort
	}
	if sort != "recent" && sort != "popular" {
		return runOpts{}, userErrf("invalid sort %q (want recent or popular)", sort)
	}

	lang := langFlag
	if lang == "" {
		lang = cfg.Language
	}

	return runOpts{
		cfg:      cfg,
		format:   format,
		sort:     youtube.ParseSort(sort),
		language: lang,
	}, nil
}
