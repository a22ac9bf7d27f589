package normalize

import (
	"github.com/nao1215/sitescope/internal/model"
	"github.com/tidwall/gjson"
)

// Theme defaults.
const (
	DefaultThemeName  = "Default Theme"
	CustomThemeName   = "Custom Theme"
	DefaultThemeColor = "#666"
)

var (
	themeNameChain = []accessor{
		textAt("name"),
	}

	// variables.hexCode wins over the flat keys when present.
	themeColorChain = []accessor{
		textAt("variables.hexCode"),
		textAt("hexCode"),
		textAt("color"),
	}
)

// DefaultTheme is the theme of a manifest that declares none.
func DefaultTheme() model.Theme {
	return model.Theme{Name: DefaultThemeName, Color: DefaultThemeColor}
}

// ResolveTheme converts a metadata.theme node into a Theme.
// A missing or non-object node, or an object that names neither a theme nor
// a color, yields DefaultTheme. Otherwise an unnamed theme is called
// CustomThemeName and an uncolored one gets DefaultThemeColor.
func ResolveTheme(theme gjson.Result) model.Theme {
	if !theme.IsObject() {
		return DefaultTheme()
	}

	name, hasName := first(theme, themeNameChain)
	color, hasColor := first(theme, themeColorChain)
	if !hasName && !hasColor {
		return DefaultTheme()
	}

	if !hasName {
		name = CustomThemeName
	}
	if !hasColor {
		color = DefaultThemeColor
	}
	return model.Theme{Name: name, Color: color}
}
