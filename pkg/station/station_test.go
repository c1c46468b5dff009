package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesOrder(t *testing.T) {
	b := Base{URL: "http://a/1", AlternateURLs: []string{"http://b/2", "http://c/3"}}
	assert.Equal(t, []string{"http://a/1", "http://b/2", "http://c/3"}, b.Candidates())
	assert.True(t, b.HasURL("http://c/3"))
	assert.False(t, b.HasURL("http://d/4"))
}

func TestCloneDoesNotShare(t *testing.T) {
	b := Base{AlternateURLs: []string{"x"}, Tags: []string{"t"}}
	c := b.Clone()
	c.AlternateURLs[0] = "y"
	c.Tags[0] = "u"
	assert.Equal(t, "x", b.AlternateURLs[0])
	assert.Equal(t, "t", b.Tags[0])
}

func TestKeyNamespacesSource(t *testing.T) {
	a := Base{ID: "1", Source: SourceVerified}
	b := Base{ID: "1", Source: SourceRadioBrowser}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "verified:1", a.Key())
}

func TestUnresolved(t *testing.T) {
	r := Unresolved(Base{URL: "http://a/1", AlternateURLs: []string{"http://b/2"}})
	assert.Equal(t, "http://a/1", r.ResolvedURL)
	assert.False(t, r.IsWorking)
}

func TestSplitTags(t *testing.T) {
	require.Nil(t, SplitTags("  "))
	assert.Equal(t, []string{"gospel", "jazz"}, SplitTags("Jazz, gospel,,JAZZ "))
}

func TestGenre(t *testing.T) {
	cases := []struct {
		name string
		tags []string
		want string
	}{
		{"Gospel Hits", nil, "Christian"},
		{"Radio One", []string{"quran", "talk"}, "Islamic"},
		{"Zen Garden", nil, "Buddhist"},
		{"Deep Ambient", nil, "Meditation"},
		// christian rule is checked before meditation
		{"Worship & Relax", nil, "Christian"},
		{"Rock FM", []string{"rock"}, Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Genre(c.name, c.tags))
		})
	}
}
