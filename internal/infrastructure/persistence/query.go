package persistence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// notFoundOr maps gorm.ErrRecordNotFound to a domain not-found error
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	return err
}

// paginate applies a whitelisted ORDER BY and the page window of the filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultField)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// likeEscaper escapes LIKE wildcards so keywords match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchLike ORs a case-insensitive substring match over the given columns
func searchLike(query *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// equalFold compares an enum column case-insensitively
func equalFold(query *gorm.DB, column string, value any) *gorm.DB {
	s, ok := value.(string)
	if !ok || s == "" {
		return query
	}
	return query.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(strings.TrimSpace(s)))
}

// filterBool, filterTime and filterUUID read typed values out of a filter map;
// a missing key or a value of another type reports false.
func filterBool(filters map[string]any, key string) (bool, bool) {
	v, ok := filters[key].(bool)
	return v, ok
}

func filterTime(filters map[string]any, key string) (time.Time, bool) {
	v, ok := filters[key].(time.Time)
	return v, ok && !v.IsZero()
}

func filterUUID(filters map[string]any, key string) (uuid.UUID, bool) {
	switch v := filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

func filterInt(filters map[string]any, key string) (int, bool) {
	switch v := filters[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// exists runs a tenant-scoped existence check, skipping excludeID when set
func exists(query *gorm.DB, model any, tenantID uuid.UUID, excludeID *uuid.UUID, where string, args ...any) (bool, error) {
	var count int64
	q := query.Model(model).Where("tenant_id = ?", tenantID).Where(where, args...)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteForTenant deletes one tenant-scoped row and reports ErrNotFound when nothing matched
func deleteForTenant(query *gorm.DB, model any, tenantID, id uuid.UUID) error {
	result := query.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// saveVersioned updates an aggregate only when the stored version is the one it
// was loaded with (version-1) and inserts it when no row exists yet. Domain
// models carry no GORM defaults, so false and zero values are written as is.
func saveVersioned(tx *gorm.DB, model any, tenantID, id uuid.UUID, version int) error {
	result := tx.Model(model).
		Select("*").
		Omit(clause.Associations).
		Where("tenant_id = ? AND id = ? AND version = ?", tenantID, id, version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return insertUnlessExists(tx, model, tenantID, id, shared.ErrConcurrencyConflict)
}

// upsert writes every column of an unversioned aggregate, inserting it when missing
func upsert(tx *gorm.DB, model any, tenantID, id uuid.UUID) error {
	result := tx.Model(model).
		Select("*").
		Omit(clause.Associations).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return insertUnlessExists(tx, model, tenantID, id, nil)
}

// insertUnlessExists creates the row, or returns existsErr when it is already stored
func insertUnlessExists(tx *gorm.DB, model any, tenantID, id uuid.UUID, existsErr error) error {
	var count int64
	if err := tx.Model(model).Where("tenant_id = ? AND id = ?", tenantID, id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return existsErr
	}
	return tx.Select("*").Omit(clause.Associations).Create(model).Error
}
