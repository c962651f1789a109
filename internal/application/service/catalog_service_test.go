package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestListAll_UsesCache(t *testing.T) {
	ctx := context.Background()
	repo := newMockCatalogRepository(catalogItem("B", "Bolillo", "3.00"), catalogItem("A", "Agua", "12.00"))
	c := &mockCatalogCache{}
	svc := NewCatalogService(repo, c)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU)

	_, err = svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.selects())
}

func TestListAll_CacheFailureFallsBackToStore(t *testing.T) {
	repo := newMockCatalogRepository(catalogItem("A", "Agua", "12.00"))
	svc := NewCatalogService(repo, &mockCatalogCache{err: errStorage})

	items, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListAll_ConcurrentLoads(t *testing.T) {
	repo := newMockCatalogRepository(catalogItem("A", "Agua", "12.00"))
	svc := NewCatalogService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := svc.ListAll(context.Background())
			assert.NoError(t, err)
			assert.Len(t, items, 1)
		}()
	}
	wg.Wait()
}

func TestListAll_StoreFailure(t *testing.T) {
	repo := newMockCatalogRepository()
	repo.err = errStorage
	svc := NewCatalogService(repo, nil)

	_, err := svc.ListAll(context.Background())
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestImportCSV_WithoutHeader(t *testing.T) {
	ctx := context.Background()
	repo := newMockCatalogRepository()
	c := &mockCatalogCache{}
	svc := NewCatalogService(repo, c)

	result, err := svc.ImportCSV(ctx, strings.NewReader("cat,CODE1,Widget,12.50\ncat,CODE2,Gadget,7"))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Imported: 2}, result)

	w, err := svc.GetBySKU(ctx, "CODE1")
	require.NoError(t, err)
	assert.Equal(t, "12.50", w.Price.StringFixed(2))
	assert.Equal(t, "CODE1", *w.PLUCode)

	g, err := svc.GetBySKU(ctx, "CODE2")
	require.NoError(t, err)
	assert.Equal(t, "7.00", g.Price.StringFixed(2))
	assert.Equal(t, 1, c.invalidated)
}

func TestImportCSV_SkipsHeaderAndBlankLines(t *testing.T) {
	repo := newMockCatalogRepository()
	svc := NewCatalogService(repo, nil)

	input := "category,code,name,price\n\nTortillas, T1 , Tortilla de maiz 1kg ,24.00\n\"Pan\",P1,\"Concha, vainilla\",9.5\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Imported: 2, SkippedHeader: true}, result)

	item := repo.items["T1"]
	assert.Equal(t, "Tortilla de maiz 1kg", item.ProductName)
	assert.Equal(t, "Concha, vainilla", repo.items["P1"].ProductName)
}

func TestImportCSV_AcceptsInchMark(t *testing.T) {
	repo := newMockCatalogRepository()
	svc := NewCatalogService(repo, nil)

	input := "category,code,name,price\nFerreteria,T12,Tubo 1/2\" PVC,12.50\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, `Tubo 1/2" PVC`, repo.items["T12"].ProductName)
}

func TestImportCSV_AbortsOnBadRow(t *testing.T) {
	repo := newMockCatalogRepository()
	svc := NewCatalogService(repo, nil)

	input := "cat,CODE1,Widget,12.50\ncat,CODE2,Gadget,7\ncat,CODE3,Bad,notanumber\ncat,CODE4,Late,1"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Contains(t, appErr.Message, "line 3")

	assert.Equal(t, 2, result.Imported)
	assert.Contains(t, repo.items, "CODE1")
	assert.NotContains(t, repo.items, "CODE3")
	assert.NotContains(t, repo.items, "CODE4")
}

func TestImportCSV_RejectsInvalidRows(t *testing.T) {
	rows := map[string]string{
		"missing code":   "cat,CODE1,Widget,1\ncat,,Nameless,2",
		"missing name":   "cat,CODE1,Widget,1\ncat,CODE2,,2",
		"negative price": "cat,CODE1,Widget,1\ncat,CODE2,Gadget,-2",
		"wrong fields":   "cat,CODE1,Widget,1\ncat,CODE2,Gadget",
	}
	for name, input := range rows {
		t.Run(name, func(t *testing.T) {
			repo := newMockCatalogRepository()
			svc := NewCatalogService(repo, nil)

			result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
			require.Error(t, err)
			assert.Equal(t, 1, result.Imported)
			assert.NotContains(t, repo.items, "CODE2")
		})
	}
}

func TestImportCSV_StorageFailure(t *testing.T) {
	repo := newMockCatalogRepository()
	repo.failAfter = 1
	repo.upsertErr = errStorage
	svc := NewCatalogService(repo, nil)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader("cat,A,Uno,1\ncat,B,Dos,2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, result.Imported)
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"category", "code", "name", "price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Bebidas", "7501", "Refresco 600ml", "18.50"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Bebidas", "7502", "Agua 1L", "12"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	repo := newMockCatalogRepository()
	svc := NewCatalogService(repo, nil)

	result, err := svc.ImportXLSX(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Imported: 2, SkippedHeader: true}, result)
	assert.Equal(t, "Refresco 600ml", repo.items["7501"].ProductName)
	assert.Equal(t, "12.00", repo.items["7502"].Price.StringFixed(2))
}

func TestImportXLSX_InvalidFile(t *testing.T) {
	svc := NewCatalogService(newMockCatalogRepository(), nil)

	_, err := svc.ImportXLSX(context.Background(), strings.NewReader("not a workbook"))
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}
