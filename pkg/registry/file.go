package registry

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/zachfi/stationgo/pkg/shoutcast"
	"github.com/zachfi/stationgo/pkg/station"
)

// fileFormat is the on-disk layout of a registry file.
type fileFormat struct {
	Stations []fileStation `yaml:"stations"`
}

type fileStation struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url,omitempty"`
	AlternateURLs []string `yaml:"alternate_urls,omitempty"`
	// Playlist is a .pls or .m3u file; the first entry becomes the URL and
	// the rest the alternates, after any listed explicitly.
	Playlist     string   `yaml:"playlist,omitempty"`
	Favicon      string   `yaml:"favicon,omitempty"`
	Tags         []string `yaml:"tags,omitempty"`
	Country      string   `yaml:"country,omitempty"`
	Language     string   `yaml:"language,omitempty"`
	Codec        string   `yaml:"codec,omitempty"`
	BitrateKbps  int      `yaml:"bitrate_kbps,omitempty"`
	Genre        string   `yaml:"genre,omitempty"`
	DirectoryIDs []string `yaml:"directory_ids,omitempty"`
}

// ReadFile reads the stations listed in a YAML registry file. Playlist paths
// are relative to the file.
func ReadFile(path string) ([]station.Base, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ff fileFormat
	if err := yaml.UnmarshalStrict(data, &ff); err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	out := make([]station.Base, 0, len(ff.Stations))
	for _, fs := range ff.Stations {
		s := station.Base{
			ID:            fs.ID,
			Name:          fs.Name,
			URL:           fs.URL,
			AlternateURLs: fs.AlternateURLs,
			Favicon:       fs.Favicon,
			Tags:          fs.Tags,
			Country:       fs.Country,
			Language:      fs.Language,
			Codec:         fs.Codec,
			BitrateKbps:   fs.BitrateKbps,
			Genre:         fs.Genre,
			DirectoryIDs:  fs.DirectoryIDs,
		}

		if fs.Playlist != "" {
			p := fs.Playlist
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			urls, err := readPlaylist(p)
			if err != nil {
				return nil, fmt.Errorf("station %q: %w", fs.ID, err)
			}
			if s.URL == "" {
				s.URL, urls = urls[0], urls[1:]
			}
			for _, u := range urls {
				if !s.HasURL(u) {
					s.AlternateURLs = append(s.AlternateURLs, u)
				}
			}
		}

		out = append(out, s)
	}

	return out, nil
}

// LoadFile builds a registry from a YAML file. When withDefaults is set the
// built-in stations come first.
func LoadFile(path string, withDefaults bool) (*Registry, error) {
	stations, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if withDefaults {
		stations = append(Default().List(), stations...)
	}
	return New(stations...)
}

func readPlaylist(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return shoutcast.Parse(path, f)
}
