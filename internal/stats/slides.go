package stats

import "fmt"

// Slide is one screen of the Wrapped sequence. The front end only styles it;
// all content is decided here.
type Slide struct {
	Background string
	TextColor  string
	Icon       string
	Text       string
	Sub        string
}

// EmptySlide is shown when the window has no events at all.
var EmptySlide = Slide{
	Background: "#000000",
	TextColor:  "#ffffff",
	Icon:       "Ghost",
	Text:       "Not enough quests yet!",
	Sub:        "Go embark on some side quests first.",
}

// Slides builds the fixed narrative sequence from a summary. A nil summary
// yields the single "not enough data" slide.
func Slides(s *Summary) []Slide {
	if s == nil {
		return []Slide{EmptySlide}
	}

	slides := []Slide{
		{
			Background: "#ffafcc",
			Icon:       "Heart",
			Text:       "You were busy exploring.",
			Sub:        fmt.Sprintf("You logged %d quests. Each one a tiny step in your journey.", s.Total),
		},
	}

	if s.PeakHour >= 0 {
		slides = append(slides, Slide{
			Background: "#a2d2ff",
			Icon:       "Clock",
			Text:       "Your peak hour of adventure?",
			Sub:        fmt.Sprintf("%d:00. The world was sleeping, but you were on a quest.", s.PeakHour),
		})
	}

	slides = append(slides,
		Slide{
			Background: "#ffd60a",
			Icon:       "Calendar",
			Text:       fmt.Sprintf("You went %d days being \"Normal\".", s.LongestGap),
			Sub:        "That's your longest quiet streak. We missed the chaos.",
		},
		Slide{
			Background: s.TopCategory.Color,
			Icon:       s.TopCategory.Icon,
			Text:       fmt.Sprintf("The %s Champion.", s.TopCategory.Name),
			Sub:        fmt.Sprintf("You logged this %d times. %s — it's basically your brand now.", s.TopCount, s.Title),
		},
		Slide{
			Background: "#bdb2ff",
			Icon:       "Feather",
			Text:       "One note for the archives.",
			Sub:        fmt.Sprintf("%q", s.Note),
		},
		Slide{
			Background: "#1a1a1a",
			TextColor:  "#ffffff",
			Icon:       "Sparkles",
			Text:       "Stay adventurous.",
			Sub:        "See you next time for the next chapter.",
		},
	)

	return slides
}
