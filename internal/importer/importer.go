// Package importer loads the product CSV into the store.
//
// Rows are matched to existing products by name: a new name creates a row,
// a known name overwrites its price, quantity and timestamp in place. Each
// row is written on its own, so when a later row fails the earlier ones stay
// persisted.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JonMunkholm/inventory/internal/csvio"
	"github.com/JonMunkholm/inventory/internal/inventory"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/store"
)

// Columns the source CSV must provide.
var RequiredColumns = []string{
	inventory.ColumnName,
	inventory.ColumnPrice,
	inventory.ColumnQuantity,
	inventory.ColumnUpdated,
}

// Repository is the subset of the store the importer writes through.
type Repository interface {
	Create(ctx context.Context, p inventory.Product) (inventory.Product, error)
	GetByName(ctx context.Context, name string) (inventory.Product, error)
	Update(ctx context.Context, p inventory.Product) (inventory.Product, error)
}

// Result counts what an import did.
type Result struct {
	Created int
	Updated int
}

// Rows returns the number of rows written.
func (r Result) Rows() int { return r.Created + r.Updated }

// Importer upserts CSV rows into a Repository.
type Importer struct {
	repo Repository
	path string
	now  func() time.Time
}

// New returns an importer reading the CSV at path.
func New(repo Repository, path string) *Importer {
	return &Importer{repo: repo, path: path, now: time.Now}
}

// SetClock replaces the time source used for rows without a date.
func (im *Importer) SetClock(now func() time.Time) {
	im.now = now
}

// Path returns the CSV source location.
func (im *Importer) Path() string { return im.path }

// Run imports the configured CSV file.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	f, err := os.Open(im.path)
	if err != nil {
		return Result{}, fmt.Errorf("open inventory csv: %w", err)
	}
	defer f.Close()

	ctx, _ = logging.WithRunID(ctx)
	log := logging.WithFields(ctx, "file", im.path)
	log.Info("import started")

	res, err := im.Import(ctx, f)
	if err != nil {
		log.Error("import failed", "created", res.Created, "updated", res.Updated, "error", err)
		return res, err
	}

	log.Info("import finished", "created", res.Created, "updated", res.Updated)
	return res, nil
}

// Import reads CSV data from r and upserts every row. It stops at the first
// malformed row or store failure; rows before it remain written.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result

	cr := csvio.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return res, fmt.Errorf("inventory csv is empty")
	}
	if err != nil {
		return res, fmt.Errorf("read csv header: %w", err)
	}

	idx := csvio.MakeHeaderIndex(header)
	if err := idx.Require(RequiredColumns...); err != nil {
		return res, err
	}

	log := logging.FromContext(ctx)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import cancelled at line %d: %w", line, err)
		}

		if csvio.IsBlank(row) {
			continue
		}

		p, err := im.buildProduct(row, idx)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}

		created, err := im.upsert(ctx, p)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		log.Debug("row imported", "line", line, "name", p.Name, "created", created)
	}

	return res, nil
}

// buildProduct normalizes one CSV row.
func (im *Importer) buildProduct(row []string, idx csvio.HeaderIndex) (inventory.Product, error) {
	name := idx.Text(row, inventory.ColumnName)
	if name == "" {
		return inventory.Product{}, fmt.Errorf("empty required field %q", inventory.ColumnName)
	}

	price, err := inventory.ParsePrice(idx.Cell(row, inventory.ColumnPrice))
	if err != nil {
		return inventory.Product{}, err
	}

	qty, err := inventory.ParseQuantity(idx.Cell(row, inventory.ColumnQuantity))
	if err != nil {
		return inventory.Product{}, err
	}

	updated := im.now()
	if raw := idx.Cell(row, inventory.ColumnUpdated); raw != "" {
		if updated, err = inventory.ParseDate(raw); err != nil {
			return inventory.Product{}, err
		}
	}

	return inventory.Product{
		Name:      name,
		Price:     price,
		Quantity:  qty,
		UpdatedAt: updated,
	}, nil
}

// upsert creates p, or overwrites the existing row with the same name.
// Reports whether a new row was created.
func (im *Importer) upsert(ctx context.Context, p inventory.Product) (bool, error) {
	_, err := im.repo.Create(ctx, p)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrDuplicateName) {
		return false, err
	}

	existing, err := im.repo.GetByName(ctx, p.Name)
	if err != nil {
		return false, fmt.Errorf("load existing %q: %w", p.Name, err)
	}

	existing.Price = p.Price
	existing.Quantity = p.Quantity
	existing.UpdatedAt = p.UpdatedAt

	if _, err := im.repo.Update(ctx, existing); err != nil {
		return false, fmt.Errorf("update existing %q: %w", p.Name, err)
	}
	return false, nil
}
