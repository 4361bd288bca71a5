package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/app/models"
)

// CategoryService owns the category tree and its mutation guards. Cycles are
// prevented at write time by walking the ancestor chain of a proposed parent,
// so tree construction can assume an acyclic dataset.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// TreeNode is a category with its children attached.
type TreeNode struct {
	models.Category
	Children []*TreeNode `json:"children"`
}

// List returns all categories flat, ordered for stable display.
func (s *CategoryService) List() ([]models.Category, error) {
	var cats []models.Category
	err := s.db.Order("sort_order, id").Find(&cats).Error
	return cats, err
}

// Tree loads every category in one pass and assembles the hierarchy in
// memory: roots first, then children attached by parent-id lookup.
func (s *CategoryService) Tree() ([]*TreeNode, error) {
	cats, err := s.List()
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*TreeNode, len(cats))
	for i := range cats {
		nodes[cats[i].ID] = &TreeNode{Category: cats[i], Children: []*TreeNode{}}
	}

	var roots []*TreeNode
	for i := range cats {
		node := nodes[cats[i].ID]
		if cats[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*cats[i].ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node) // orphaned parent reference
		}
	}
	return roots, nil
}

// Get returns one category by ID.
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category, validating any parent reference.
func (s *CategoryService) Create(c *models.Category) error {
	if c.ParentID != nil {
		if _, err := s.Get(*c.ParentID); err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return ErrParentNotFound
			}
			return err
		}
	}
	return s.db.Create(c).Error
}

// Update overwrites a category. Re-parenting walks the ancestor chain upward
// from the proposed parent; finding the category itself there means the move
// would turn a descendant into an ancestor.
func (s *CategoryService) Update(id uint, updated *models.Category) (*models.Category, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if updated.ParentID != nil {
		if *updated.ParentID == id {
			return nil, ErrSelfParent
		}
		if _, err := s.Get(*updated.ParentID); err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		cycle, err := s.inAncestry(*updated.ParentID, id)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, ErrCategoryCycle
		}
	}

	c.Name = updated.Name
	c.ParentID = updated.ParentID
	c.Description = updated.Description
	c.SortOrder = updated.SortOrder
	c.IsActive = updated.IsActive

	if err := s.db.Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// inAncestry reports whether target appears in the ancestor chain starting at
// from (inclusive).
func (s *CategoryService) inAncestry(from, target uint) (bool, error) {
	seen := map[uint]bool{}
	current := from
	for {
		if current == target {
			return true, nil
		}
		if seen[current] {
			return false, nil // existing cycle in data; the guard still holds
		}
		seen[current] = true

		var c models.Category
		if err := s.db.Select("id", "parent_id").First(&c, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if c.ParentID == nil {
			return false, nil
		}
		current = *c.ParentID
	}
}

// Delete removes a category unless children or products still depend on it.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var children int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}

	var products int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryHasProducts
	}

	return s.db.Delete(&models.Category{}, id).Error
}
