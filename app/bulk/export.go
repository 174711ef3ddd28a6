package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/storage"
)

const exportBatch = 500

// Source streams every product. *services.ProductService implements it.
type Source interface {
	Each(ctx context.Context, batch int, fn func([]models.Product) error) error
}

// Snapshot is the document written by Export.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Products    []models.Product `json:"products"`
}

// ExportPath is the default file name for a snapshot taken at t.
func ExportPath(t time.Time) string {
	return fmt.Sprintf("exports/products-%s.json", t.UTC().Format("20060102T150405Z"))
}

// Export streams a JSON snapshot of every product to path on disk and
// returns the number of products written.
func Export(ctx context.Context, src Source, disk storage.Disk, path string, now time.Time) (int, error) {
	pr, pw := io.Pipe()

	count := 0
	go func() {
		pw.CloseWithError(writeSnapshot(ctx, src, pw, now, &count))
	}()

	if err := disk.Put(ctx, path, pr); err != nil {
		pr.CloseWithError(err)
		return 0, fmt.Errorf("bulk: export to %s: %w", path, err)
	}
	return count, nil
}

// writeSnapshot encodes the snapshot one product at a time so the whole
// catalogue is never held in memory.
func writeSnapshot(ctx context.Context, src Source, w io.Writer, now time.Time, count *int) error {
	generated, err := json.Marshal(now.UTC())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "{\"generated_at\":%s,\"products\":[", generated); err != nil {
		return err
	}

	err = src.Each(ctx, exportBatch, func(batch []models.Product) error {
		for i := range batch {
			if *count > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			b, err := json.Marshal(&batch[i])
			if err != nil {
				return err
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
			*count++
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, "]}\n")
	return err
}
