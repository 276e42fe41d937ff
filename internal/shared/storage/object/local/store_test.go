package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWithKeyAndOpen(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	n, err := store.SaveWithKey(ctx, "resume_Acme_Corp_20250101_120000.md", "text/markdown", strings.NewReader("# Jane"))
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)

	rc, err := store.Open(ctx, "resume_Acme_Corp_20250101_120000.md")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "# Jane", string(body))
}

func TestSaveUsesRandomPrefix(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := New(dir)

	key, size, mime, err := store.Save(ctx, "my resume.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, "_my resume.pdf"))
	assert.EqualValues(t, 13, size)
	assert.Equal(t, "application/pdf", mime)

	_, err = os.Stat(filepath.Join(dir, key))
	require.NoError(t, err)
}

func TestRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	_, err := store.SaveWithKey(ctx, "../escape.md", "text/markdown", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrInvalidKey))

	_, err = store.Open(ctx, "/etc/passwd")
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	_, err := store.SaveWithKey(ctx, "a.md", "text/markdown", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, "a.md"))
	require.NoError(t, store.Remove(ctx, "a.md"))

	path, err := store.Path("a.md")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPathStaysUnderDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "uploads"))

	tests := []struct {
		key  string
		want string
		err  error
	}{
		{key: "a_resume.pdf", want: filepath.Join(store.Dir(), "a_resume.pdf")},
		{key: "uploads/a_resume.pdf", want: filepath.Join(store.Dir(), "uploads", "a_resume.pdf")},
		{key: "../a_resume.pdf", err: ErrInvalidKey},
		{key: ".", err: ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := store.Path(tt.key)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
