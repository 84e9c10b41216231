package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// isDuplicateKey - нарушение уникального индекса на любом из трех драйверов
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// findOne - First по id с заменой ErrRecordNotFound на доменную ошибку
func findOne[T any](db *gorm.DB, notFound error, query string, args ...interface{}) (*T, error) {
	var out T
	if err := db.Where(query, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &out, nil
}

// updateByID - частичный UPDATE; 0 затронутых строк означает, что записи нет
func updateByID[T any](db *gorm.DB, notFound error, id string, updates map[string]interface{}) error {
	var model T
	updates["updated_at"] = time.Now().UTC()
	result := db.Model(&model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// deleteByID - DELETE по id
func deleteByID[T any](db *gorm.DB, notFound error, id string) error {
	var model T
	result := db.Where("id = ?", id).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// paginate - общий COUNT + LIMIT/OFFSET
func paginate[T any](query *gorm.DB, order string, limit, offset int) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	if err := query.Order(order).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
