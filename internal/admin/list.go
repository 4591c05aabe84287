package admin

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

// Row is one record rendered as its display columns.
type Row map[string]any

// ListQuery selects the rows of a changelist.
type ListQuery struct {
	Search  string
	Filters url.Values
	Page    string
}

// List returns a page of rows matching the search terms and filters, newest first.
func (s *Site) List(ctx context.Context, name string, q ListQuery) (pagination.Page[Row], error) {
	m, err := s.model(name)
	if err != nil {
		return pagination.Page[Row]{}, err
	}

	conds, err := m.conditions(q)
	if err != nil {
		return pagination.Page[Row]{}, err
	}
	query := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(m.New())
		for _, c := range conds {
			db = db.Where(c)
		}
		return db
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return pagination.Page[Row]{}, fmt.Errorf("counting %s: %w", name, err)
	}
	params := pagination.Resolve(q.Page, total, PerPage)

	records := m.NewSlice()
	err = query().
		Order(clause.OrderByColumn{Column: clause.Column{Name: m.schema.PrioritizedPrimaryField.DBName}, Desc: true}).
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(records).Error
	if err != nil {
		return pagination.Page[Row]{}, fmt.Errorf("listing %s: %w", name, err)
	}

	return pagination.New(m.rows(ctx, records), params, total), nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// conditions turns the search box and the filter parameters into WHERE clauses.
// Each search term must match at least one search field.
func (m *ModelAdmin) conditions(q ListQuery) ([]clause.Expression, error) {
	var conds []clause.Expression

	if len(m.SearchFields) > 0 {
		for _, term := range strings.Fields(q.Search) {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
			ors := make([]clause.Expression, 0, len(m.SearchFields))
			for _, column := range m.SearchFields {
				ors = append(ors, clause.Expr{
					SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
					Vars: []any{clause.Column{Table: clause.CurrentTable, Name: column}, pattern},
				})
			}
			conds = append(conds, clause.Or(ors...))
		}
	}

	for column, values := range q.Filters {
		if !m.filterable(column) || len(values) == 0 {
			continue
		}
		field := m.schema.LookUpField(column)
		value, err := parseValue(field, values[0])
		if err != nil {
			return nil, &FieldError{Field: column, Message: err.Error()}
		}
		conds = append(conds, clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Value:  value,
		})
	}
	return conds, nil
}

// parseValue converts a query string value to the field's type. "null" selects
// rows where a nullable field is empty.
func parseValue(field *schema.Field, raw string) (any, error) {
	t := field.FieldType
	if t.Kind() == reflect.Ptr {
		if raw == "null" {
			return nil, nil
		}
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return n, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case reflect.String:
		return raw, nil
	}
	return nil, fmt.Errorf("cannot filter on %s", field.DBName)
}

func (m *ModelAdmin) rows(ctx context.Context, records any) []Row {
	rv := reflect.Indirect(reflect.ValueOf(records))
	rows := make([]Row, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rows = append(rows, m.row(ctx, rv.Index(i)))
	}
	return rows
}

// row renders the primary key plus the display columns of one record.
func (m *ModelAdmin) row(ctx context.Context, record reflect.Value) Row {
	record = reflect.Indirect(record)
	pk := m.schema.PrioritizedPrimaryField
	id, _ := pk.ValueOf(ctx, record)

	row := Row{pk.DBName: id}
	for _, column := range m.ListDisplay {
		value, _ := m.schema.LookUpField(column).ValueOf(ctx, record)
		row[column] = display(value)
	}
	return row
}

// display dereferences pointers and replaces empty values with EmptyValueDisplay.
func display(value any) any {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return EmptyValueDisplay
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return EmptyValueDisplay
		}
		value = rv.Elem().Interface()
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return EmptyValueDisplay
		}
	case time.Time:
		if v.IsZero() {
			return EmptyValueDisplay
		}
	}
	return value
}
