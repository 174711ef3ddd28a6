package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocalDisk(root)
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "exports/products.json", strings.NewReader(`[{"sku":1}]`)))

	ok, err := d.Exists(ctx, "exports/products.json")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Get(ctx, "exports/products.json")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, `[{"sku":1}]`, string(body))

	files, err := d.Files(ctx, "exports")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/products.json"}, files)

	require.NoError(t, d.Delete(ctx, "exports/products.json"))
	require.NoError(t, d.Delete(ctx, "exports/products.json"))

	_, err = d.Get(ctx, "exports/products.json")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocalDisk(filepath.Join(root, "disk"))
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "disk", "escape.txt"))
	assert.NoError(t, err)
}

func TestManager(t *testing.T) {
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())
	t.Setenv("STORAGE_DISK", "local")
	t.Setenv("S3_BUCKET", "")

	m, err := NewManager(context.Background())
	require.NoError(t, err)

	d, err := m.Use("")
	require.NoError(t, err)
	assert.IsType(t, &LocalDisk{}, d)

	_, err = m.Use("s3")
	assert.ErrorContains(t, err, `disk "s3" is not configured`)

	m.Register("s3", d)
	_, err = m.Use("s3")
	assert.NoError(t, err)
}
