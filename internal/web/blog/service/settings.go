package service

import (
	gconfig "github.com/Laisky/go-config/v2"
)

// Settings blog service settings
type Settings struct {
	// CanonicalJSON renders /json in canonical instead of relaxed extended json
	CanonicalJSON bool
	// RenderMarkdown renders post content as markdown on the html page
	RenderMarkdown bool
	// Dry logs new posts instead of inserting them
	Dry bool
}

// LoadSettingsFromConfig reads Settings from the shared config
func LoadSettingsFromConfig() Settings {
	return Settings{
		CanonicalJSON:  gconfig.Shared.GetBool("settings.web.json.canonical"),
		RenderMarkdown: gconfig.Shared.GetBool("settings.web.render_markdown"),
		Dry:            gconfig.Shared.GetBool("dry"),
	}
}
