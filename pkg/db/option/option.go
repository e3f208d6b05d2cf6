package option

import (
	"strconv"

	"github.com/getmenuly/menuly/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// ApplyPagination applies a keyset cursor and fetches one extra row so
// callers can detect a next page. Snowflake ids are time ordered, so a
// keyset on id alone preserves newest-first ordering.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor.ID != "" {
				if id, perr := strconv.ParseInt(cursor.ID, 10, 64); perr == nil {
					db = db.Where("id < ?", id)
				}
			}
		}
		return db.Limit(page.Limit() + 1)
	})
}
