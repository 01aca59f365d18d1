package main

import (
	"context"
	"io"
	"strconv"

	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var demoMenu = []models.Product{
	{Name: "Espresso", UnitPrice: decimal.RequireFromString("45.00"), Description: "Double shot"},
	{Name: "Americano", UnitPrice: decimal.RequireFromString("50.00"), Description: "Espresso and hot water"},
	{Name: "Latte", UnitPrice: decimal.RequireFromString("55.00"), Description: "Espresso with steamed milk"},
	{Name: "Thai tea", UnitPrice: decimal.RequireFromString("40.00"), Description: "Iced, with condensed milk"},
	{Name: "Croissant", UnitPrice: decimal.RequireFromString("65.00"), Description: "Butter croissant"},
	{Name: "Banana cake", UnitPrice: decimal.RequireFromString("35.50"), Description: "Slice"},
}

// SeedDemo inserts the demo products that are not on the menu yet, matching
// by name, and reports how many it created.
func SeedDemo(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	for _, item := range demoMenu {
		p := item
		res := db.WithContext(ctx).
			Where(models.Product{Name: p.Name}).
			Attrs(models.Product{UnitPrice: p.UnitPrice, Description: p.Description}).
			FirstOrCreate(&p)
		if res.Error != nil {
			return created, res.Error
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

func PrintMenu(w io.Writer, products []models.Product) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Unit price", "Description")
	for _, p := range products {
		if err := table.Append([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.UnitPrice.StringFixed(2),
			p.Description,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
