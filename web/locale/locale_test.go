package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   language.Tag
	}{
		{"empty", nil, language.AmericanEnglish},
		{"portuguese", []string{"pt-BR,pt;q=0.9,en;q=0.8"}, language.BrazilianPortuguese},
		{"bare pt", []string{"pt"}, language.BrazilianPortuguese},
		{"unsupported", []string{"fr-FR"}, language.AmericanEnglish},
		{"cookie wins", []string{"pt-BR", "en-US"}, language.BrazilianPortuguese},
		{"garbage skipped", []string{"!!", "pt-BR"}, language.BrazilianPortuguese},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Negotiate(tc.values...))
		})
	}
}

func TestTranslationFilesHaveSameKeys(t *testing.T) {
	read := func(name string) map[string]string {
		data, err := translationFS.ReadFile("translation/" + name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, toml.Unmarshal(data, &m))
		return m
	}
	en := read("active.en-US.toml")
	pt := read("active.pt-BR.toml")
	require.NotEmpty(t, en)
	for k := range en {
		assert.Contains(t, pt, k)
	}
	assert.Len(t, pt, len(en))
}

func TestLocalizerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LocalizerMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, T(c, "permission denied")+"|"+T(c, "no such message")+"|"+Lang(c).String())
	})

	get := func(setup func(*http.Request)) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "permission denied|no such message|en-US", get(func(*http.Request) {}))
	assert.Equal(t, "permissão negada|no such message|pt-BR", get(func(req *http.Request) {
		req.Header.Set("Accept-Language", "pt-BR")
	}))
	assert.Equal(t, "permission denied|no such message|en-US", get(func(req *http.Request) {
		req.Header.Set("Accept-Language", "pt-BR")
		req.AddCookie(&http.Cookie{Name: "lang", Value: "en-US"})
	}))
}

func TestTWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "not found", T(c, "not found"))
	assert.Equal(t, language.AmericanEnglish, Lang(c))
}
