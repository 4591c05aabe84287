package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/validation"
)

// Detail is a full record together with its inline rows.
type Detail struct {
	Record  any              `json:"record"`
	Inlines map[string][]Row `json:"inlines,omitempty"`
}

func (s *Site) Get(ctx context.Context, name string, id int) (*Detail, error) {
	m, err := s.model(name)
	if err != nil {
		return nil, err
	}
	record, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Record: record}
	for _, inline := range m.Inlines {
		im, err := s.model(inline.Model)
		if err != nil {
			return nil, fmt.Errorf("%s inline: %w", name, err)
		}
		records := im.NewSlice()
		err = s.db.WithContext(ctx).
			Where(clause.Eq{Column: clause.Column{Name: inline.ForeignKey}, Value: id}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: im.schema.PrioritizedPrimaryField.DBName}}).
			Find(records).Error
		if err != nil {
			return nil, fmt.Errorf("loading %s inline of %s %d: %w", inline.Model, name, id, err)
		}
		if detail.Inlines == nil {
			detail.Inlines = make(map[string][]Row)
		}
		detail.Inlines[inline.Model] = im.rows(ctx, records)
	}
	return detail, nil
}

// Create decodes and validates a full record, then stores it.
func (s *Site) Create(ctx context.Context, name string, body []byte) (any, error) {
	m, err := s.model(name)
	if err != nil {
		return nil, err
	}

	record := m.New()
	if err := json.Unmarshal(body, record); err != nil {
		return nil, &FieldError{Field: "body", Message: "malformed JSON"}
	}
	validation.Register()
	if err := binding.Validator.ValidateStruct(record); err != nil {
		return nil, fieldError(err)
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return nil, writeError(name, err)
	}
	return record, nil
}

// Patch changes the list_editable columns of one record. Any other key is rejected.
func (s *Site) Patch(ctx context.Context, name string, id int, body []byte) (any, error) {
	m, err := s.model(name)
	if err != nil {
		return nil, err
	}

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(body, &changes); err != nil {
		return nil, &FieldError{Field: "body", Message: "malformed JSON"}
	}
	if len(changes) == 0 {
		return nil, &FieldError{Field: "body", Message: "no changes"}
	}

	columns := make([]string, 0, len(changes))
	fields := make([]string, 0, len(changes))
	for column := range changes {
		if !m.editable(column) {
			return nil, &FieldError{Field: column, Message: "field is not editable"}
		}
		field := m.schema.LookUpField(column)
		columns = append(columns, field.DBName)
		fields = append(fields, field.Name)
	}
	sort.Strings(columns)

	record, err := s.load(ctx, m, id)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, record); err != nil {
		return nil, &FieldError{Field: "body", Message: err.Error()}
	}
	if err := validation.Engine().StructPartial(record, fields...); err != nil {
		return nil, fieldError(err)
	}

	err = s.db.WithContext(ctx).Model(record).Select(columns).Updates(record).Error
	if err != nil {
		return nil, writeError(name, err)
	}
	return record, nil
}

// Delete removes one record. It is loaded first so the model's delete hooks run.
func (s *Site) Delete(ctx context.Context, name string, id int) error {
	m, err := s.model(name)
	if err != nil {
		return err
	}
	record, err := s.load(ctx, m, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(record).Error
	})
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", name, id, err)
	}
	return nil
}

func (s *Site) load(ctx context.Context, m *ModelAdmin, id int) (any, error) {
	record := m.New()
	err := s.db.WithContext(ctx).Take(record, id).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s %d: %w", m.Name, id, err)
	}
	return record, nil
}

func fieldError(err error) error {
	field, message := validation.Message(err)
	return &FieldError{Field: field, Message: message}
}

func writeError(name string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return &FieldError{Field: "record", Message: "a " + name + " record with these values already exists"}
	case database.IsForeignKeyViolation(err):
		return &FieldError{Field: "record", Message: "references a record that does not exist"}
	}
	return fmt.Errorf("saving %s: %w", name, err)
}
