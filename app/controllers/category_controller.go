package controllers

import (
	"net/http"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.List()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, cats)
}

func (c *CategoryController) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := c.categories.Tree()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, tree)
}

func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	cat, err := c.categories.Get(id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, cat)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ParentID    *uint  `json:"parent_id"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (req *categoryRequest) toModel() models.Category {
	c := models.Category{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !bindJSON(w, r, &req) {
		return
	}

	cat := req.toModel()
	if err := c.categories.Create(&cat); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Created(w, cat)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var req categoryRequest
	if !bindJSON(w, r, &req) {
		return
	}

	updated := req.toModel()
	cat, err := c.categories.Update(id, &updated)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, cat)
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.categories.Delete(id); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "category deleted"})
}
