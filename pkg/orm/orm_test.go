package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/voltmart/voltmart/pkg/orm"
)

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, orm.ClampPage(-5))
	assert.Equal(t, 1, orm.ClampPage(0))
	assert.Equal(t, 7, orm.ClampPage(7))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 1, orm.ClampPageSize(0))
	assert.Equal(t, 1, orm.ClampPageSize(-1))
	assert.Equal(t, 20, orm.ClampPageSize(20))
	assert.Equal(t, orm.MaxPageSize, orm.ClampPageSize(10_000))
}

type row struct {
	ID   uint `gorm:"primarykey"`
	Name string
}

func TestPaginate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&row{Name: "r"}).Error)
	}

	var rows []row
	pg, err := orm.Paginate(db.Model(&row{}), 2, 3, &rows)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 3, pg.PageSize)
	assert.EqualValues(t, 7, pg.Total)
	assert.Equal(t, 3, pg.TotalPages)

	// Past the end: empty page, same totals.
	pg, err = orm.Paginate(db.Model(&row{}), 5, 3, &rows)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.EqualValues(t, 7, pg.Total)
}
