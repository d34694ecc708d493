package ocr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSource_TakeLeavesPlaceholder(t *testing.T) {
	src := FromBytes([]byte{1, 2, 3})
	require.False(t, src.IsEmpty())

	taken := src.Take()

	assert.True(t, src.IsEmpty())
	assert.Equal(t, 0, src.Len())
	assert.False(t, taken.IsEmpty())
	assert.Equal(t, 3, taken.Len())

	again := src.Take()
	assert.True(t, again.IsEmpty())
}

func TestResolveImage_BytesAreNotCopied(t *testing.T) {
	buf := []byte{0x89, 'P', 'N', 'G'}
	src := FromBytes(buf)

	handle := ResolveImage(src.Take())

	require.Len(t, handle.Data, len(buf))
	assert.Same(t, &buf[0], &handle.Data[0])
	assert.Nil(t, handle.URL)
	assert.Empty(t, handle.FilePath())
}

func TestResolveImage_PathBecomesFileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")

	handle := ResolveImage(FromPath(path))

	require.NotNil(t, handle.URL)
	assert.Equal(t, "file", handle.URL.Scheme)
	assert.Equal(t, path, handle.FilePath())
	assert.Nil(t, handle.Data)
}

func TestResolveImage_RelativePathIsMadeAbsolute(t *testing.T) {
	handle := ResolveImage(FromPath("testdata/missing.png"))

	require.NotNil(t, handle.URL)
	assert.True(t, filepath.IsAbs(handle.FilePath()))
}

func TestResolveImage_Empty(t *testing.T) {
	var src ImageSource
	assert.True(t, ResolveImage(src).IsEmpty())
	assert.Equal(t, "empty", src.String())
}

func TestImageSource_Path(t *testing.T) {
	p, ok := FromPath("/tmp/a.png").Path()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a.png", p)

	_, ok = FromBytes(nil).Path()
	assert.False(t, ok)
}
