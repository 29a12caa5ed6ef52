package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_EveryExtensionCaseInsensitive(t *testing.T) {
	table := Default()
	for _, def := range defaultDefinitions {
		for _, ext := range def.Extensions {
			for _, variant := range []string{ext, toLower(ext), "." + toLower(ext), mixed(ext)} {
				got, ok := table.Classify(variant)
				require.True(t, ok, "extension %q should classify", variant)
				assert.Equal(t, def.Category, got, "extension %q", variant)
			}
		}
	}
}

func TestClassify_Images(t *testing.T) {
	table := Default()
	for _, ext := range []string{"jpg", "JPG", "Jpg"} {
		got, ok := table.Classify(ext)
		require.True(t, ok)
		assert.Equal(t, Images, got)
	}
}

func TestClassify_Unknown(t *testing.T) {
	table := Default()
	for _, ext := range []string{"", "EXE", "tar.gz", "BASHRC"} {
		_, ok := table.Classify(ext)
		assert.False(t, ok, "extension %q should not classify", ext)
	}
}

func TestNew_FirstMatchWins(t *testing.T) {
	table := New([]Definition{
		{Fonts, []string{"OTF", "TTF"}},
		{Fonts, []string{"otf", "ttf"}},
		{Images, []string{"PNG", "TTF"}},
	})
	got, ok := table.Classify("ttf")
	require.True(t, ok)
	assert.Equal(t, Fonts, got)
	assert.Equal(t, []Category{Fonts, Images}, table.Categories())
	assert.Equal(t, []string{"PNG"}, table.Extensions(Images))
}

func TestDefault_Vocabulary(t *testing.T) {
	assert.Equal(t, []Category{Images, Video, Documents, Audio, Archives, Dataset, Fonts, Ebooks, GPS},
		Default().Categories())
	assert.Equal(t, []string{"7Z", "7ZIP", "GZ", "RAR", "TAR", "ZIP"}, Default().Extensions(Archives))
}

func TestExtensionOfAndStem(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		stem string
	}{
		{"file.JPG", "JPG", "file"},
		{"notes.txt", "TXT", "notes"},
		{"archive.tar.gz", "GZ", "archive.tar"},
		{".bashrc", "", ".bashrc"},
		{"..zip", "", "..zip"},
		{"README", "", "README"},
		{"trailing.", "", "trailing."},
		{"dir/photo.Png", "PNG", "photo"},
		{"фото.jpeg", "JPEG", "фото"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ext, ExtensionOf(tt.name))
			assert.Equal(t, tt.stem, Stem(tt.name))
		})
	}
}

func TestClassifyName(t *testing.T) {
	table := Default()
	got, ok := table.ClassifyName("holiday.MP4")
	require.True(t, ok)
	assert.Equal(t, Video, got)

	_, ok = table.ClassifyName(".zip")
	assert.False(t, ok)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func mixed(s string) string {
	b := []byte(toLower(s))
	if len(b) > 0 && b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
