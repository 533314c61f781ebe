package stats

// titles maps the seeded category ids to their thematic labels.
var titles = map[string]string{
	"cold":         "The Sniffle Survivor",
	"rejection":    "The Unbothered",
	"silly-google": "The Curious Mind",
	"oops":         "The Social Daredevil",
}

const fallbackTitle = "The Chaos Champion"

func titleFor(categoryID string) string {
	if title, ok := titles[categoryID]; ok {
		return title
	}
	return fallbackTitle
}
