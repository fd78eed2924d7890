package db

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateIfAbsent inserts value unless a row with the same id already exists.
// A clash on id is reported as inserted=false instead of an error so the
// surrounding transaction stays usable; other constraint violations still fail.
func CreateIfAbsent(tx *gorm.DB, value interface{}) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListIDs returns every id in table starting with prefix.
func ListIDs(tx *gorm.DB, table, prefix string) ([]string, error) {
	var ids []string
	if err := tx.Table(table).
		Where("id LIKE ?", escapeLike(prefix)+"%").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Exists reports whether table has a row with the given id.
func Exists(tx *gorm.DB, table, id string) (bool, error) {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
