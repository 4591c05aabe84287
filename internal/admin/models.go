package admin

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// BlogModels is the admin configuration of the blog's content models.
func BlogModels() []ModelAdmin {
	return []ModelAdmin{
		{
			Name:         "posts",
			New:          func() any { return &models.Post{} },
			NewSlice:     func() any { return &[]models.Post{} },
			ListDisplay:  []string{"title", "text", "pub_date", "is_published", "created_at", "author_id", "category_id", "location_id"},
			ListEditable: []string{"is_published", "pub_date", "category_id", "location_id"},
			SearchFields: []string{"title"},
			ListFilter:   []string{"category_id"},
		},
		{
			Name:         "categories",
			New:          func() any { return &models.Category{} },
			NewSlice:     func() any { return &[]models.Category{} },
			ListDisplay:  []string{"title", "description", "slug", "is_published", "created_at"},
			ListEditable: []string{"slug", "is_published"},
			SearchFields: []string{"title"},
			ListFilter:   []string{"title"},
			Inlines:      []Inline{{Model: "posts", ForeignKey: "category_id"}},
		},
		{
			Name:         "locations",
			New:          func() any { return &models.Location{} },
			NewSlice:     func() any { return &[]models.Location{} },
			ListDisplay:  []string{"name", "is_published", "created_at"},
			ListEditable: []string{"is_published"},
			SearchFields: []string{"name"},
			ListFilter:   []string{"name"},
		},
		{
			Name:        "comments",
			New:         func() any { return &models.Comment{} },
			NewSlice:    func() any { return &[]models.Comment{} },
			ListDisplay: []string{"text", "post_id", "author_id", "created_at"},
		},
	}
}

// NewBlogSite returns a site with every blog model registered.
func NewBlogSite(db *gorm.DB) (*Site, error) {
	site := NewSite(db)
	for _, m := range BlogModels() {
		if err := site.Register(m); err != nil {
			return nil, err
		}
	}
	return site, nil
}
