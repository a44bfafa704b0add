package policy

import "sync"

// Platform capabilities and extension points that are provided by Kodi itself
// and never published as installable add-ons.
var commonIgnore = []string{
	"xbmc.metadata.scraper.albums", "xbmc.metadata.scraper.movies",
	"xbmc.metadata.scraper.musicvideos", "xbmc.metadata.scraper.tvshows",
	"xbmc.metadata.scraper.library", "xbmc.ui.screensaver", "xbmc.player.musicviz",
	"xbmc.python.pluginsource", "xbmc.python.script", "xbmc.python.weather", "xbmc.python.lyrics",
	"xbmc.python.library", "xbmc.python.module", "xbmc.subtitle.module", "kodi.context.item",
	"kodi.game.controller", "xbmc.gui.skin", "xbmc.webinterface", "xbmc.addon.repository",
	"xbmc.pvrclient", "kodi.gameclient", "kodi.peripheral", "kodi.resource", "xbmc.addon.video",
	"xbmc.addon.audio", "xbmc.addon.image", "xbmc.addon.executable", "kodi.addon.game",
	"kodi.audioencoder", "kodi.audiodecoder", "xbmc.service", "kodi.resource.images",
	"kodi.resource.language", "kodi.resource.uisounds", "kodi.resource.games",
	"kodi.resource.font", "kodi.inputstream", "kodi.vfs", "kodi.imagedecoder", "xbmc.addon",
	"xbmc.gui", "xbmc.json", "xbmc.metadata", "xbmc.python", "script.module.pil",
}

var branchIgnore = map[string][]string{
	"krypton": {"inputstream.adaptive", "inputstream.rtmp"},
	"leia":    {"script.module.pycryptodome"},
}

var extensions = map[string]string{
	"kodi.gameclient":                   "kodi.binary.instance.game",
	"xbmc.gui.skin":                     "xbmc.gui",
	"kodi.vfs":                          "kodi.binary.instance.vfs",
	"xbmc.metadata.scraper.albums":      "xbmc.metadata",
	"xbmc.metadata.scraper.artists":     "xbmc.metadata",
	"xbmc.metadata.scraper.library":     "xbmc.metadata",
	"xbmc.metadata.scraper.movies":      "xbmc.metadata",
	"xbmc.metadata.scraper.musicvideos": "xbmc.metadata",
	"xbmc.metadata.scraper.tvshows":     "xbmc.metadata",
	"xbmc.pvrclient":                    "kodi.binary.instance.pvr",
	"xbmc.python.library":               "xbmc.python",
	"xbmc.python.lyrics":                "xbmc.python",
	"xbmc.python.module":                "xbmc.python",
	"xbmc.python.pluginsource":          "xbmc.python",
	"xbmc.python.script":                "xbmc.python",
	"xbmc.python.weather":               "xbmc.python",
	"xbmc.ui.screensaver":               "xbmc.python",
	"xbmc.webinterface":                 "xbmc.webinterface",
}

var versionOverrides = map[string]map[string]string{
	"xbmc.python": {
		"gotham":   "2.14.0",
		"helix":    "2.19.0",
		"isengard": "2.20.0",
		"jarvis":   "2.24.0",
		"krypton":  "2.25.0",
		"leia":     "2.26.0",
		"matrix":   "3.0.0",
	},
}

// DefaultOptions returns a copy of the built-in tables as Options, for callers that want to extend them
func DefaultOptions() Options {
	return Default().Options()
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the built-in tables
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = New(Options{
			CommonIgnore:     commonIgnore,
			BranchIgnore:     branchIgnore,
			Extensions:       extensions,
			VersionOverrides: versionOverrides,
		})
	})
	return defaultTables
}
