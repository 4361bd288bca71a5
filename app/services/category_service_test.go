package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/models"
	"github.com/voltmart/voltmart/app/services"
)

func TestCategoryTree(t *testing.T) {
	db := newTestDB(t)
	cats := services.NewCategoryService(db)

	root1 := seedCategory(t, db, "Components", nil)
	root2 := seedCategory(t, db, "Tools", nil)
	child := seedCategory(t, db, "Resistors", &root1.ID)
	grandchild := seedCategory(t, db, "Metal Film", &child.ID)

	tree, err := cats.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, root1.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, child.ID, tree[0].Children[0].ID)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, grandchild.ID, tree[0].Children[0].Children[0].ID)

	assert.Equal(t, root2.ID, tree[1].ID)
	assert.Empty(t, tree[1].Children)
}

func TestCategoryCreateValidatesParent(t *testing.T) {
	db := newTestDB(t)
	cats := services.NewCategoryService(db)

	missing := uint(999)
	err := cats.Create(&models.Category{Name: "Orphan", ParentID: &missing, IsActive: true})
	assert.ErrorIs(t, err, services.ErrParentNotFound)
}

func TestCategoryUpdateGuards(t *testing.T) {
	db := newTestDB(t)
	cats := services.NewCategoryService(db)

	root := seedCategory(t, db, "Components", nil)
	child := seedCategory(t, db, "Resistors", &root.ID)
	grandchild := seedCategory(t, db, "Metal Film", &child.ID)

	// A category cannot be its own parent.
	_, err := cats.Update(root.ID, &models.Category{Name: "Components", ParentID: &root.ID, IsActive: true})
	assert.ErrorIs(t, err, services.ErrSelfParent)

	// Re-parenting under an unknown category.
	missing := uint(999)
	_, err = cats.Update(root.ID, &models.Category{Name: "Components", ParentID: &missing, IsActive: true})
	assert.ErrorIs(t, err, services.ErrParentNotFound)

	// Moving the root under its own grandchild would close a cycle.
	_, err = cats.Update(root.ID, &models.Category{Name: "Components", ParentID: &grandchild.ID, IsActive: true})
	assert.ErrorIs(t, err, services.ErrCategoryCycle)

	// A legal move between branches works.
	other := seedCategory(t, db, "Tools", nil)
	moved, err := cats.Update(child.ID, &models.Category{Name: "Resistors", ParentID: &other.ID, IsActive: true})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, other.ID, *moved.ParentID)
}

func TestCategoryDeleteGuards(t *testing.T) {
	db := newTestDB(t)
	cats := services.NewCategoryService(db)

	root := seedCategory(t, db, "Components", nil)
	child := seedCategory(t, db, "Resistors", &root.ID)

	assert.ErrorIs(t, cats.Delete(root.ID), services.ErrCategoryHasChildren)

	p := models.Product{
		Name: "1k resistor", ModelNumber: "R-1K", CategoryID: child.ID,
		Brand: "Acme", Price: 0.05, Unit: "piece", Stock: 100, MinOrderQty: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&p).Error)
	assert.ErrorIs(t, cats.Delete(child.ID), services.ErrCategoryHasProducts)

	require.NoError(t, db.Delete(&models.Product{}, p.ID).Error)
	require.NoError(t, cats.Delete(child.ID))
	require.NoError(t, cats.Delete(root.ID))

	assert.ErrorIs(t, cats.Delete(root.ID), services.ErrCategoryNotFound)
}
