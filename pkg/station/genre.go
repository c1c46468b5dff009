package station

import "strings"

type genreRule struct {
	genre    string
	keywords []string
}

// genreRules are evaluated in order; the first rule with a keyword found in
// the station name or tags wins.
var genreRules = []genreRule{
	{"Christian", []string{"christian", "gospel", "worship", "catholic", "praise", "bible"}},
	{"Islamic", []string{"islamic", "islam", "quran", "koran", "nasheed"}},
	{"Buddhist", []string{"buddhist", "buddha", "dharma", "zen"}},
	{"Hindu", []string{"hindu", "bhajan", "kirtan", "mantra"}},
	{"Jewish", []string{"jewish", "judaism", "torah"}},
	{"Meditation", []string{"meditation", "ambient", "relax", "sleep", "spiritual"}},
}

// Genre classifies a station by keyword substring matching against its name
// and tags. It returns Unknown when nothing matches.
func Genre(name string, tags []string) string {
	hay := make([]string, 0, len(tags)+1)
	hay = append(hay, strings.ToLower(name))
	for _, t := range tags {
		hay = append(hay, strings.ToLower(t))
	}
	for _, rule := range genreRules {
		for _, kw := range rule.keywords {
			for _, h := range hay {
				if strings.Contains(h, kw) {
					return rule.genre
				}
			}
		}
	}
	return Unknown
}
