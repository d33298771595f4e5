package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestFindBrowser(t *testing.T) {
	tests := []struct {
		name      string
		browser   string
		available []string
		want      string
		wantErr   bool
	}{
		{"first candidate", "", []string{"chromium", "google-chrome"}, "/usr/bin/chromium", false},
		{"later candidate", "", []string{"google-chrome-stable"}, "/usr/bin/google-chrome-stable", false},
		{"explicit browser", "brave", []string{"brave", "chromium"}, "/usr/bin/brave", false},
		{"explicit browser missing", "brave", []string{"chromium"}, "", true},
		{"nothing installed", "", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.browser)
			r.lookPath = fakeLookPath(tt.available...)

			got, err := r.FindBrowser()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBrowserNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgs(t *testing.T) {
	args := Args("/tmp/x/sheets.html", "/tmp/x/sheets.pdf")
	assert.Contains(t, args, "--headless")
	assert.Contains(t, args, "--print-to-pdf=/tmp/x/sheets.pdf")
	assert.Equal(t, "file:///tmp/x/sheets.html", args[len(args)-1])
}

func TestPDFWithoutBrowser(t *testing.T) {
	r := New("")
	r.lookPath = fakeLookPath()

	_, err := r.PDF(context.Background(), []byte("<html></html>"))
	assert.ErrorIs(t, err, ErrBrowserNotFound)
}

// TestPDFWithFakeBrowser runs a shell script standing in for Chromium that
// copies its input to the --print-to-pdf target.
func TestPDFWithFakeBrowser(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script browser")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-chrome")
	body := `#!/bin/sh
out=""
in=""
for arg in "$@"; do
  case "$arg" in
    --print-to-pdf=*) out="${arg#--print-to-pdf=}" ;;
    file://*) in="${arg#file://}" ;;
  esac
done
printf '%%PDF-fake ' > "$out"
cat "$in" >> "$out"
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	r := New(script)
	data, err := r.PDF(context.Background(), []byte("<html>sheet</html>"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake <html>sheet</html>", string(data))
}

func TestPDFBrowserFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script browser")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "broken-chrome")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0755))

	_, err := New(script).PDF(context.Background(), []byte("<html></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
