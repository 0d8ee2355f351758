package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "jane-doe"},
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"https://www.linkedin.com/in/jane-doe/details/experience/", "jane-doe"},
		{"https://linkedin.com/in/j%C3%A1ne", "jáne"},
		{"https://www.linkedin.com/company/initech/", "www.linkedin.com/company/initech/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ProfileIDFromURL(tc.url), tc.url)
	}
}

func TestDetectPage(t *testing.T) {
	cases := []struct {
		url  string
		want Page
	}{
		{"https://www.linkedin.com/in/jane-doe/", PageProfile},
		{"https://www.linkedin.com/company/initech/", PageCompany},
		{"https://www.linkedin.com/school/state-university/", PageCompany},
		{"https://www.linkedin.com/authwall?trk=x", PageAuthWall},
		{"https://www.linkedin.com/uas/login", PageAuthWall},
		{"https://www.linkedin.com/feed/", PageUnknown},
		{"://bad", PageUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectPage(tc.url), tc.url)
	}
}

func TestIsLoginWall(t *testing.T) {
	wall, err := FromHTML("x", `<html><body><form class="login__form"><input name="session_key"></form></body></html>`)
	require.NoError(t, err)
	assert.True(t, IsLoginWall(wall.Doc))

	profile, err := FromHTML("x", `<html><body><h1>Jane Doe</h1><main></main></body></html>`)
	require.NoError(t, err)
	assert.False(t, IsLoginWall(profile.Doc))
}

func TestFromFile_UsesCanonicalLinkForProfileID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved-page.html")
	html := `<html><head><link rel="canonical" href="https://www.linkedin.com/in/jane-doe/"></head>` +
		`<body><h1>Jane Doe</h1></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	result, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", result.ProfileID)
	assert.Equal(t, 1, result.Doc.Find("h1").Length())
}

func TestFromFile_FallsBackToFileNameStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane-doe.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><body><h1>Jane Doe</h1></body></html>`), 0o644))

	result, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", result.ProfileID)
}

func TestFromFile_MissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	var fetchErr *Error
	assert.True(t, errors.As(err, &fetchErr))
}

func TestURL_FetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`<html><body><h1>Jane Doe</h1><main></main></body></html>`))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL+"/in/jane-doe/", nil)
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", result.ProfileID)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 1, result.Doc.Find("h1").Length())
}

func TestURL_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_LoginWallIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><input name="session_key"></body></html>`))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login wall")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)
	require.Error(t, err)
	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "invalid URL", fetchErr.Message)
}
