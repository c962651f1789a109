package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/request"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles catalog listing, live search and import
type CatalogHandler struct {
	catalogService *service.CatalogService
	searchService  *service.SearchService
	maxUploadSize  int64
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, searchService *service.SearchService, maxUploadSize int64) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		searchService:  searchService,
		maxUploadSize:  maxUploadSize,
	}
}

// List returns the whole catalog, or the live filter when ?search= is present
func (h *CatalogHandler) List(c *gin.Context) {
	if term, ok := c.GetQuery("search"); ok {
		items, err := h.searchService.Filter(c.Request.Context(), term)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Catalog filtered", items)
		return
	}

	items, err := h.catalogService.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog retrieved successfully", items)
}

// Import accepts a multipart "file" (.csv or .xlsx) or a raw text/csv body
func (h *CatalogHandler) Import(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}
	ctx := c.Request.Context()

	var (
		result *service.ImportResult
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			response.BadRequest(c, "A file is required")
			return
		}
		file, ferr := fileHeader.Open()
		if ferr != nil {
			response.BadRequest(c, "Could not read uploaded file")
			return
		}
		defer file.Close()

		if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
			result, err = h.catalogService.ImportXLSX(ctx, file)
		} else {
			result, err = h.catalogService.ImportCSV(ctx, file)
		}
	} else {
		result, err = h.catalogService.ImportCSV(ctx, c.Request.Body)
	}

	if err != nil {
		if result != nil {
			errorWithData(c, err, result)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog imported successfully", result)
}

// Submit resolves the search box on enter
func (h *CatalogHandler) Submit(c *gin.Context) {
	var req request.SearchSubmitRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.searchService.Submit(c.Request.Context(), req.Term)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Added {
		response.OK(c, "No matching product", result)
		return
	}
	response.OK(c, "Product added to cart", result)
}
