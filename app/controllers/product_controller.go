package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/resource"
	"github.com/voltmart/voltmart/pkg/response"
	"github.com/voltmart/voltmart/pkg/storage"
)

// productResource is the public detail shape: the stored image JSON becomes a
// list and the raw stock number an availability flag.
type productResource struct{ resource.Base }

func (pr *productResource) ToArray(v interface{}) resource.Map {
	p := v.(models.Product)
	return resource.Map{
		"id":            p.ID,
		"name":          p.Name,
		"model_number":  p.ModelNumber,
		"category_id":   p.CategoryID,
		"brand":         p.Brand,
		"price":         p.Price,
		"unit":          p.Unit,
		"stock":         p.Stock,
		"min_order_qty": p.MinOrderQty,
		"specs":         p.Specs,
		"description":   p.Description,
		"is_active":     p.IsActive,
		"in_stock":      p.Stock > 0,
		"images":        p.ImageList(),
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /products with filter, sort, and pagination parameters.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	query := services.ProductQuery{
		CategoryID: uint(queryInt(r, "category_id", 0)),
		Keyword:    qs.Get("keyword"),
		Brand:      qs.Get("brand"),
		SortBy:     strings.ToLower(qs.Get("sort_by")),
		SortOrder:  strings.ToLower(qs.Get("sort_order")),
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 20),
	}
	if raw := qs.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MinPrice = &v
		}
	}
	if raw := qs.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MaxPrice = &v
		}
	}

	products, pg, err := c.products.List(query)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Paginated(w, products, pg)
}

// AdminList is List without the active-only filter, for the back office.
func (c *ProductController) AdminList(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	query := services.ProductQuery{
		CategoryID:      uint(queryInt(r, "category_id", 0)),
		Keyword:         qs.Get("keyword"),
		Brand:           qs.Get("brand"),
		IncludeInactive: true,
		SortBy:          strings.ToLower(qs.Get("sort_by")),
		SortOrder:       strings.ToLower(qs.Get("sort_order")),
		Page:            queryInt(r, "page", 1),
		PageSize:        queryInt(r, "page_size", 20),
	}

	products, pg, err := c.products.List(query)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Paginated(w, products, pg)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Success(w, resource.New(&productResource{}, *product))
}

func (c *ProductController) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := c.products.Brands()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, brands)
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ModelNumber string  `json:"model_number" validate:"required,max=100"`
	CategoryID  uint    `json:"category_id" validate:"required"`
	Brand       string  `json:"brand" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Unit        string  `json:"unit" validate:"nullable,max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
	MinOrderQty int     `json:"min_order_qty" validate:"nullable,gte=1"`
	Specs       string  `json:"specs"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (req *productRequest) toModel() models.Product {
	p := models.Product{
		Name:        req.Name,
		ModelNumber: req.ModelNumber,
		CategoryID:  req.CategoryID,
		Brand:       req.Brand,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		MinOrderQty: req.MinOrderQty,
		Specs:       req.Specs,
		Description: req.Description,
		IsActive:    true,
	}
	if p.Unit == "" {
		p.Unit = "piece"
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !bindJSON(w, r, &req) {
		return
	}

	product := req.toModel()
	if err := c.products.Create(&product); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var req productRequest
	if !bindJSON(w, r, &req) {
		return
	}

	updated := req.toModel()
	product, err := c.products.Update(id, &updated)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.products.Delete(id); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}

// UploadImage accepts a multipart image, stores it on the configured disk,
// and appends its public URL to the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		response.Error(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%d/%d%s", id, time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, file); err != nil {
		respondErr(w, r, err)
		return
	}

	product, err := c.products.AddImage(id, storage.URL(path))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, resource.New(&productResource{}, *product))
}
