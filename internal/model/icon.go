package model

// IconFallback is used whenever an icon key is missing or unknown.
const IconFallback = "Circle"

// questIcons is the closed set of selectable icon keys, in display order.
var questIcons = []string{
	"Circle", "Heart", "Star", "Ghost", "Coffee", "Zap", "Moon", "Sun",
	"Cloud", "Trash2", "Smile", "Frown", "Dizzy", "Bomb", "Flame",
	"Thermometer", "XCircle", "Search", "UserX",
}

var iconSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(questIcons))
	for _, name := range questIcons {
		set[name] = struct{}{}
	}
	return set
}()

// Icons returns the selectable icon keys in display order.
func Icons() []string {
	out := make([]string, len(questIcons))
	copy(out, questIcons)
	return out
}

// NormalizeIcon maps an arbitrary key onto the closed icon set.
func NormalizeIcon(key string) string {
	if _, ok := iconSet[key]; ok {
		return key
	}
	return IconFallback
}
