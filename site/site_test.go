package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lingloft/lingsite/content"
	"github.com/lingloft/lingsite/registry"
)

const minimalData = `
identity:
  name: Team
  motto: We build things
  description: Site wide description
  url: https://example.org/
  language: en-GB
  og_image: /logo.png
default_page: home
pages:
  - id: home
  - id: about
    title: About <b>Us</b>
    description: Team info
strings:
  button.back: Back
`

func TestDefaultSiteLoads(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	require.Equal(t, "灵阁", s.Identity.Name)
	require.Equal(t, "主页", s.Registry.DefaultID())
	require.Equal(t, []string{"主页", "关于我", "友情链接", "联系方式", "我的项目"}, s.Registry.IDs())
	require.Equal(t, "zh_CN", s.Identity.Locale())
	require.Equal(t, "灵阁 - 创意技术团队", s.Identity.DefaultTitle())
	require.Equal(t, "返回", s.Strings["button.back"])
	require.Equal(t, "// WELCOME TO LINGLOFT", s.Strings["home.welcome"])
}

func TestLoadMinimal(t *testing.T) {
	s, err := Load(strings.NewReader(minimalData))
	require.NoError(t, err)

	require.Equal(t, "website", s.Identity.Type)
	require.Equal(t, "en_GB", s.Identity.Locale())
	require.Equal(t, "Team - We build things", s.Identity.DefaultTitle())
	require.Equal(t, "https://example.org", s.Identity.BaseURL())
	require.Equal(t, "https://example.org/#organization", s.Identity.NodeID("organization"))
	require.Equal(t, "https://example.org/logo.png", s.Identity.Absolute(s.Identity.OGImage))

	about, err := s.Registry.Lookup("about")
	require.NoError(t, err)
	require.Equal(t, "About Us", about.Title, "markup is stripped from copy")

	require.Equal(t, "Site wide description", s.Strings[content.SlotPageDescription])

	bundle, err := s.Binder().ContentFor("home")
	require.NoError(t, err)
	require.Equal(t, "Site wide description", bundle.Description())
	require.Equal(t, "Back", bundle.Text("button.back"))
}

func TestLoadRejectsInvalidData(t *testing.T) {
	cases := map[string]struct {
		data string
		want error
	}{
		"default page missing": {
			data: strings.Replace(minimalData, "default_page: home", "default_page: nowhere", 1),
			want: registry.ErrDefaultMissing,
		},
		"duplicate page": {
			data: strings.Replace(minimalData, "- id: about", "- id: home", 1),
			want: registry.ErrDuplicatePage,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.data))
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("relative url", func(t *testing.T) {
		_, err := Load(strings.NewReader(strings.Replace(minimalData, "https://example.org/", "/relative", 1)))
		require.ErrorContains(t, err, "absolute")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(strings.NewReader(minimalData + "\nsurprise: true\n"))
		require.Error(t, err)
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := Load(strings.NewReader(strings.Replace(minimalData, "description: Site wide description", "description: \"\"", 1)))
		require.ErrorContains(t, err, "description is required")
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := Load(strings.NewReader(strings.Replace(minimalData, "name: Team", "name: \"\"", 1)))
		require.ErrorContains(t, err, "name is required")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalData), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "home", s.Registry.DefaultID())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

const bareIdentityData = `
identity:
  name: Ling Loft
  description: Site wide description
  url: https://example.org
default_page: home
pages:
  - id: home
  - id: about
`

func TestLoadFillsShareDefaults(t *testing.T) {
	s, err := Load(strings.NewReader(bareIdentityData))
	require.NoError(t, err)

	id := s.Identity
	require.Equal(t, DefaultImage, id.LogoPath)
	require.Equal(t, DefaultImage, id.OGImage)
	require.Equal(t, "https://example.org/logo.svg", id.ImageURL())
	require.Equal(t, "@LingLoft", id.TwitterHandle)
	require.Equal(t, "@LingLoft", id.TwitterSite())
	require.Equal(t, "zh_CN", id.Locale())
}

func TestIdentityShareFallbacks(t *testing.T) {
	id := Identity{Name: "灵阁", URL: "https://example.org/"}
	require.Equal(t, "https://example.org/logo.svg", id.ImageURL())
	require.Equal(t, "@灵阁", id.TwitterSite())
	require.Equal(t, "zh_CN", id.Locale())

	id.NameEN = "LINGLOFT"
	require.Equal(t, "@LINGLOFT", id.TwitterSite())

	id.TwitterHandle = "lingloft"
	require.Equal(t, "@lingloft", id.TwitterSite())

	id.LogoPath = "/brand.png"
	require.Equal(t, "https://example.org/brand.png", id.ImageURL())
	id.OGImage = "https://cdn.example.org/share.png"
	require.Equal(t, "https://cdn.example.org/share.png", id.ImageURL())
}

func TestIdentityHelpers(t *testing.T) {
	id := Identity{Name: "Team", URL: "https://example.org", Language: "en"}
	require.Equal(t, "Team", id.DefaultTitle())
	require.Equal(t, "en", id.Locale())
	require.Equal(t, "", id.Absolute(""))
	require.Equal(t, "https://cdn.example.org/x.png", id.Absolute("https://cdn.example.org/x.png"))
	require.Equal(t, "https://example.org/img/x.png", id.Absolute("img/x.png"))

	id.Keywords = []string{"a", "b"}
	require.Equal(t, "a, b", id.KeywordList())
}
