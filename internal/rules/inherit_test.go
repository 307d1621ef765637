package rules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTLSLoader(t *testing.T, handler http.Handler) (*Loader, string) {
	t.Helper()

	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	l := NewLoader(afero.NewMemMapFs())
	l.fetcher.httpClient = srv.Client()
	return l, srv.URL
}

func TestLoader_RemotePreset(t *testing.T) {
	l, base := newTLSLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/team.yaml":
			_, _ = w.Write([]byte("name: team\nextends: [conventional-ptbr]\nrules:\n  scope-empty: [2, never]\n  type-enum: [2, always, [feat, fix]]\n"))
		default:
			http.NotFound(w, r)
		}
	}))

	rs, err := l.Load(context.Background(), base+"/team.yaml")
	require.NoError(t, err)

	assert.Equal(t, "team", rs.Name())
	assert.Equal(t, "pt-BR", rs.Locale())

	names := entryNames(rs.Entries())
	assert.Equal(t, "scope-empty", names[len(names)-1])

	var typeEnum Entry
	for _, e := range rs.Entries() {
		if e.Name == "type-enum" {
			typeEnum = e
		}
	}
	assert.Equal(t, []string{"feat", "fix"}, typeEnum.Value)
}

func TestLoader_RemoteExtends(t *testing.T) {
	l, base := newTLSLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("name: shared\nlocale: en\nrules:\n  header-max-length: [2, always, 72]\n"))
	}))

	fs := l.fs
	require.NoError(t, afero.WriteFile(fs, "/proj/preset.yaml",
		[]byte("name: local\nextends: [conventional-ptbr, "+base+"/shared.yaml]\n"), 0o644))

	rs, err := l.Load(context.Background(), "/proj/preset.yaml")
	require.NoError(t, err)
	assert.Equal(t, "en", rs.Locale())

	for _, e := range rs.Entries() {
		if e.Name == "header-max-length" {
			assert.Equal(t, 72, e.Value)
		}
	}
}

func TestLoader_RemoteErrors(t *testing.T) {
	big := "name: big\n# " + strings.Repeat("x", maxPresetSize) + "\n"

	l, base := newTLSLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.yaml":
			_, _ = w.Write([]byte(big))
		case "/exact.yaml":
			body := "name: exact\n#"
			_, _ = w.Write([]byte(body + strings.Repeat("x", maxPresetSize-len(body))))
		default:
			http.Error(w, "gone", http.StatusGone)
		}
	}))
	ctx := context.Background()

	_, err := l.Load(ctx, base+"/big.yaml")
	assert.ErrorIs(t, err, ErrPresetTooLarge)

	rs, err := l.Load(ctx, base+"/exact.yaml")
	require.NoError(t, err, "a preset of exactly the limit is accepted")
	assert.Equal(t, "exact", rs.Name())

	_, err = l.Load(ctx, base+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 410")

	_, err = l.Load(ctx, strings.Replace(base, "https://", "http://", 1)+"/team.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure URL")
}
