package registry

import "github.com/zachfi/stationgo/pkg/station"

var defaultStations = []station.Base{
	{
		ID:      "k-love",
		Name:    "K-LOVE",
		URL:     "https://maestro.emfcdn.com/stream_for/k-love/web/aac",
		Favicon: "https://www.klove.com/favicon.ico",
		AlternateURLs: []string{
			"https://maestro.emfcdn.com/stream_for/k-love/tunein/aac",
			"http://maestro.emfcdn.com/stream_for/k-love/web/aac",
		},
		Tags:        []string{"christian", "contemporary", "worship"},
		Country:     "United States",
		Language:    "english",
		Codec:       "AAC",
		BitrateKbps: 64,
		Genre:       "Christian",
	},
	{
		ID:   "air1",
		Name: "Air1",
		URL:  "https://maestro.emfcdn.com/stream_for/air1/web/aac",
		AlternateURLs: []string{
			"https://maestro.emfcdn.com/stream_for/air1/tunein/aac",
		},
		Tags:        []string{"christian", "worship"},
		Country:     "United States",
		Language:    "english",
		Codec:       "AAC",
		BitrateKbps: 64,
		Genre:       "Christian",
	},
	{
		ID:   "quran-cairo",
		Name: "Holy Quran Radio Cairo",
		URL:  "https://stream.radiojar.com/8s5u5tpdtwzuv",
		AlternateURLs: []string{
			"http://stream.radiojar.com/8s5u5tpdtwzuv",
		},
		Tags:        []string{"islamic", "quran"},
		Country:     "Egypt",
		Language:    "arabic",
		Codec:       "MP3",
		BitrateKbps: 128,
		Genre:       "Islamic",
	},
	{
		ID:   "somafm-dronezone",
		Name: "SomaFM Drone Zone",
		URL:  "https://ice1.somafm.com/dronezone-128-mp3",
		AlternateURLs: []string{
			"https://ice2.somafm.com/dronezone-128-mp3",
			"https://ice4.somafm.com/dronezone-128-mp3",
			"https://ice6.somafm.com/dronezone-128-mp3",
		},
		Favicon:     "https://somafm.com/img3/dronezone-120.jpg",
		Tags:        []string{"ambient", "meditation", "space"},
		Country:     "United States",
		Language:    "english",
		Codec:       "MP3",
		BitrateKbps: 128,
		Genre:       "Meditation",
	},
	{
		ID:   "somafm-deepspaceone",
		Name: "SomaFM Deep Space One",
		URL:  "https://ice1.somafm.com/deepspaceone-128-mp3",
		AlternateURLs: []string{
			"https://ice2.somafm.com/deepspaceone-128-mp3",
			"https://ice4.somafm.com/deepspaceone-128-mp3",
		},
		Tags:        []string{"ambient", "relax"},
		Country:     "United States",
		Language:    "english",
		Codec:       "MP3",
		BitrateKbps: 128,
		Genre:       "Meditation",
	},
}

// Default returns the built-in curated registry.
func Default() *Registry {
	r, err := New(defaultStations...)
	if err != nil {
		// the table above is static
		panic(err)
	}
	return r
}
