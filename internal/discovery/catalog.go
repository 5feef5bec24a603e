package discovery

import "strings"

// Suggestion is a feed offered to new users.
type Suggestion struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var suggested = []Suggestion{
	{"Le Monde - Actualités", "https://www.lemonde.fr/rss/une.xml", "French and international news", "News"},
	{"Hacker News", "https://news.ycombinator.com/rss", "Tech, startups and programming", "Technology"},
	{"France Inter - À la Une", "https://www.radiofrance.fr/franceinter/rss", "Headlines from France Inter", "News"},
	{"Korben.info", "https://korben.info/feed", "Geek culture, high tech and free software", "Technology"},
	{"Journal du Net - Développement", "https://www.journaldunet.com/rss/", "Web development news", "Development"},
	{"Numerama", "https://www.numerama.com/feed/", "Digital culture and tech", "Technology"},
	{"MIT Technology Review", "https://www.technologyreview.com/feed/", "Innovation and technology research", "Science"},
	{"TechCrunch", "https://techcrunch.com/feed/", "Startups and emerging technology", "Startups"},
	{"The Verge", "https://www.theverge.com/rss/index.xml", "Technology, science and culture", "Technology"},
}

// Suggested returns the built-in catalog. The slice is a copy.
func Suggested() []Suggestion {
	out := make([]Suggestion, len(suggested))
	copy(out, suggested)
	return out
}

// Find returns the suggestion whose title or URL matches key,
// case-insensitively.
func Find(key string) (Suggestion, bool) {
	key = strings.TrimSpace(key)
	for _, s := range suggested {
		if strings.EqualFold(s.Title, key) || strings.EqualFold(s.URL, key) {
			return s, true
		}
	}
	return Suggestion{}, false
}
