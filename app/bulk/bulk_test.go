package bulk

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/internal/testdb"
	"github.com/shashiranjanraj/inventory/pkg/clock"
	"github.com/shashiranjanraj/inventory/pkg/storage"
)

var t0 = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T) *services.ProductService {
	t.Helper()
	return services.NewProductService(repositories.NewProductRepository(testdb.Open(t)), nil, nil, clock.NewFake(t0))
}

func TestDecode(t *testing.T) {
	subs, err := Decode(strings.NewReader(`[{"name":"Runner","brand":"Nike","size":42.7,"quantity":3}]`))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 42.7, subs[0].Size)

	_, err = Decode(strings.NewReader(`{"name":"not an array"}`))
	assert.Error(t, err)
}

func TestImport_ConcurrentSameSKU(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	const n = 40
	subs := make([]services.ProductSubmission, 0, n+1)
	for i := 0; i < n; i++ {
		subs = append(subs, services.ProductSubmission{Name: "Classic Tee", Brand: "Acme", Size: 9, Quantity: 2})
	}
	subs = append(subs, services.ProductSubmission{Name: "", Brand: "Acme", Size: 9, Quantity: 1})

	report, err := Import(ctx, svc, subs, 8)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, n-1, report.Merged)
	assert.Equal(t, 2*n, report.Units)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, n, report.Failures[0].Index)

	p, err := svc.Get(ctx, 346071090)
	require.NoError(t, err)
	assert.Equal(t, 2*n, p.Quantity)
}

func TestImport_ReportsCollisions(t *testing.T) {
	svc := newService(t)

	report, err := Import(context.Background(), svc, []services.ProductSubmission{
		{Name: "Tee550", Brand: "Acme", Quantity: 1},
		{Name: "Tee1026", Brand: "Acme", Quantity: 1},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "Tee1026", report.Failures[0].Name)
	assert.Contains(t, report.Failures[0].Error, "143018000")
}

func TestImport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	subs := make([]services.ProductSubmission, 50)
	for i := range subs {
		subs[i] = services.ProductSubmission{Name: "Hoodie", Brand: "Acme", Size: 8, Quantity: 1}
	}
	_, err := Import(ctx, newService(t), subs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport_WritesSnapshot(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, sub := range []services.ProductSubmission{
		{Name: "Classic Tee", Brand: "Acme", Size: 9, Quantity: 5},
		{Name: "Hoodie", Brand: "Acme", Size: 8, Quantity: 2},
	} {
		_, err := svc.Restock(ctx, sub)
		require.NoError(t, err)
	}

	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	path := ExportPath(t0)
	assert.Equal(t, "exports/products-20260501T093000Z.json", path)

	n, err := Export(ctx, svc, disk, path, t0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rc, err := disk.Get(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.True(t, snap.GeneratedAt.Equal(t0))
	require.Len(t, snap.Products, 2)
	assert.Equal(t, int64(112139080), snap.Products[0].SKU)
	assert.Equal(t, int64(346071090), snap.Products[1].SKU)
}

func TestExport_EmptyCatalogue(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	n, err := Export(context.Background(), newService(t), disk, "empty.json", t0)
	require.NoError(t, err)
	assert.Zero(t, n)

	rc, err := disk.Get(context.Background(), "empty.json")
	require.NoError(t, err)
	defer rc.Close()
	var snap Snapshot
	require.NoError(t, json.NewDecoder(rc).Decode(&snap))
	assert.Empty(t, snap.Products)
}
