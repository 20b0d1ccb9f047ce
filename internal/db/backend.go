package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-pos/internal/sheet"
	"gorm.io/gorm"
)

// Worksheet is one named table of a workbook.
type Worksheet struct {
	ID          uint   `gorm:"primaryKey"`
	Spreadsheet string `gorm:"size:255;not null;uniqueIndex:idx_ws_name"`
	Name        string `gorm:"size:100;not null;uniqueIndex:idx_ws_name"`
	Position    int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SheetRow holds one worksheet row; Cells is a JSON array of strings.
type SheetRow struct {
	ID          uint   `gorm:"primaryKey"`
	WorksheetID uint   `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	Cells       string `gorm:"type:text;not null"`
}

// SheetBackend stores the worksheets of one spreadsheet in SQL tables.
type SheetBackend struct {
	db            *gorm.DB
	spreadsheetID string
}

var _ sheet.Backend = (*SheetBackend)(nil)

func NewSheetBackend(db *gorm.DB, spreadsheetID string) *SheetBackend {
	return &SheetBackend{db: db, spreadsheetID: spreadsheetID}
}

func (b *SheetBackend) Worksheets(ctx context.Context) ([]string, error) {
	var names []string
	err := b.db.WithContext(ctx).Model(&Worksheet{}).
		Where("spreadsheet = ?", b.spreadsheetID).
		Order("position, id").
		Pluck("name", &names).Error
	return names, err
}

func (b *SheetBackend) AddWorksheet(ctx context.Context, name string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Worksheet{}).Where("spreadsheet = ?", b.spreadsheetID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Create(&Worksheet{Spreadsheet: b.spreadsheetID, Name: name, Position: int(count)}).Error
	})
}

func (b *SheetBackend) worksheet(tx *gorm.DB, name string) (*Worksheet, error) {
	var ws Worksheet
	err := tx.Where("spreadsheet = ? AND name = ?", b.spreadsheetID, name).First(&ws).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sheet.ErrWorksheetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (b *SheetBackend) Values(ctx context.Context, name string) ([][]string, error) {
	tx := b.db.WithContext(ctx)
	ws, err := b.worksheet(tx, name)
	if err != nil {
		return nil, err
	}
	var rows []SheetRow
	if err := tx.Where("worksheet_id = ?", ws.ID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", name, r.Position, err)
		}
		out = append(out, cells)
	}
	return out, nil
}

// Update replaces every row of the worksheet in one transaction.
func (b *SheetBackend) Update(ctx context.Context, name string, values [][]string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ws, err := b.worksheet(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Where("worksheet_id = ?", ws.ID).Delete(&SheetRow{}).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return tx.Model(ws).Update("updated_at", time.Now()).Error
		}
		rows := make([]SheetRow, len(values))
		for i, v := range values {
			if v == nil {
				v = []string{}
			}
			cells, err := json.Marshal(v)
			if err != nil {
				return err
			}
			rows[i] = SheetRow{WorksheetID: ws.ID, Position: i, Cells: string(cells)}
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return err
		}
		return tx.Model(ws).Update("updated_at", time.Now()).Error
	})
}
