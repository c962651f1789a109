package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/cache"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/singleflight"
)

const importFields = 4 // category, code, name, price

// CatalogService serves the product catalog and imports it from files
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	cache       cache.CatalogCache
	group       singleflight.Group
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, catalogCache cache.CatalogCache) *CatalogService {
	if catalogCache == nil {
		catalogCache = cache.NoopCatalogCache{}
	}
	return &CatalogService{
		catalogRepo: catalogRepo,
		cache:       catalogCache,
	}
}

// ListAll returns the full catalog ordered by SKU
func (s *CatalogService) ListAll(ctx context.Context) ([]entity.CatalogItem, error) {
	items, err := s.cache.Get(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Warning: catalog cache unavailable: %v", err)
	}

	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		items, err := s.catalogRepo.SelectAll(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, items); err != nil {
			log.Printf("Warning: failed to cache catalog: %v", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to load catalog", err)
	}
	return v.([]entity.CatalogItem), nil
}

// GetBySKU looks up one item
func (s *CatalogService) GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to load product", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return item, nil
}

// ImportResult summarises a catalog import
type ImportResult struct {
	Imported      int  `json:"imported"`
	SkippedHeader bool `json:"skipped_header"`
}

// importRow is one data row with the line it came from
type importRow struct {
	line   int
	fields []string
}

// ImportCSV upserts every row of a category,code,name,price file. The first
// row is skipped when it is a header. The import stops at the first bad row;
// rows before it stay imported.
func (s *CatalogService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var rows []importRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("Import aborted: %v", err))
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, importRow{line: line, fields: record})
	}
	return s.importRows(ctx, rows)
}

// ImportXLSX reads the first sheet of a workbook with the same columns as ImportCSV.
func (s *CatalogService) ImportXLSX(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid spreadsheet file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &ImportResult{}, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid spreadsheet file")
	}

	rows := make([]importRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, importRow{line: i + 1, fields: record})
	}
	return s.importRows(ctx, rows)
}

func (s *CatalogService) importRows(ctx context.Context, rows []importRow) (*ImportResult, error) {
	result := &ImportResult{}
	defer func() {
		if result.Imported > 0 {
			if err := s.cache.Invalidate(ctx); err != nil {
				log.Printf("Warning: failed to invalidate catalog cache: %v", err)
			}
		}
	}()

	first := true
	for _, row := range rows {
		if isBlankRecord(row.fields) {
			continue
		}

		if first {
			first = false
			if isHeaderRow(row.fields) {
				result.SkippedHeader = true
				continue
			}
		}

		item, err := parseImportRow(row.fields)
		if err != nil {
			return result, importError(row.line, err.Error())
		}

		if err := s.catalogRepo.Upsert(ctx, item); err != nil {
			log.Printf("Catalog import failed at line %d: %v", row.line, err)
			return result, apperror.NewPersistenceError(fmt.Sprintf("Import aborted at line %d: failed to save product", row.line), err)
		}
		result.Imported++
	}
	return result, nil
}

func parseImportRow(fields []string) (*entity.CatalogItem, error) {
	if len(fields) != importFields {
		return nil, fmt.Errorf("expected %d fields (category, code, name, price), got %d", importFields, len(fields))
	}

	category := strings.TrimSpace(fields[0])
	code := strings.TrimSpace(fields[1])
	name := strings.TrimSpace(fields[2])
	if code == "" {
		return nil, errors.New("code is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}

	price, err := money.ParseAmount(fields[3])
	if err != nil {
		return nil, fmt.Errorf("price %q is not a number", strings.TrimSpace(fields[3]))
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price %s is negative", price)
	}

	plu := code
	return &entity.CatalogItem{
		SKU:         code,
		Category:    category,
		ProductName: name,
		Price:       price.Round(2),
		PLUCode:     &plu,
	}, nil
}

// isHeaderRow reports whether a first row is column titles rather than data.
func isHeaderRow(fields []string) bool {
	if len(fields) != importFields {
		return true
	}
	_, err := money.ParseAmount(fields[3])
	return err != nil
}

func isBlankRecord(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func importError(line int, message string) *apperror.AppError {
	msg := fmt.Sprintf("Import aborted at line %d: %s", line, message)
	return &apperror.AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: msg,
		Errors:  []apperror.FieldError{{Field: fmt.Sprintf("line %d", line), Message: message}},
	}
}
