package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const SheetName = "Menu"

// Header is the first row of an exported menu and the column order Import expects.
var Header = []string{"ID", "Name", "UnitPrice", "Description", "Image"}

var (
	ErrEmptySheet = repository.Invalid("Excel file is empty or missing header row")
	ErrUnreadable = repository.Invalid("Failed to parse Excel file")
)

// Result counts what Import did with each data row.
type Result struct {
	Created int `json:"created_count"`
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// Export writes products as a single-sheet workbook.
func Export(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range Header {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.UnitPrice.StringFixed(2))
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Image)
	}

	return file.Write(w)
}

// Import upserts every data row of the first sheet. Rows with an ID that
// exists update that product; anything else is created. Rows without a name
// or with an unreadable or negative price are skipped.
func Import(ctx context.Context, repo repository.Repository[models.Product], file *xlsx.File) (Result, error) {
	var res Result
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return res, ErrEmptySheet
	}

	sheet := file.Sheets[0]
	for _, row := range sheet.Rows[1:] {
		if row == nil || blank(row) {
			continue
		}

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err := decimal.NewFromString(get(2))
		if name == "" || err != nil || price.IsNegative() {
			res.Skipped++
			continue
		}

		product := models.Product{
			Name:        name,
			UnitPrice:   price,
			Description: get(3),
			Image:       get(4),
		}

		if id, err := strconv.ParseUint(get(0), 10, 64); err == nil && id > 0 {
			updated, err := updateExisting(ctx, repo, uint(id), product)
			if err != nil {
				return res, err
			}
			if updated {
				res.Updated++
				continue
			}
		}

		if err := repo.Create(ctx, &product); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func updateExisting(ctx context.Context, repo repository.Repository[models.Product], id uint, p models.Product) (bool, error) {
	existing, err := repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	existing.Name = p.Name
	existing.UnitPrice = p.UnitPrice
	existing.Description = p.Description
	existing.Image = p.Image
	if err := repo.Update(ctx, id, existing); err != nil {
		return false, err
	}
	return true, nil
}

func blank(row *xlsx.Row) bool {
	for _, cell := range row.Cells {
		if strings.TrimSpace(cell.String()) != "" {
			return false
		}
	}
	return true
}

// OpenReaderAt parses an uploaded workbook.
func OpenReaderAt(r io.ReaderAt, size int64) (*xlsx.File, error) {
	f, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return f, nil
}

func OpenFile(path string) (*xlsx.File, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
