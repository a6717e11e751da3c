package domain

import (
	"fmt"
	"strings"
)

// MaxCallbackData is Telegram's limit for inline button callback data, in bytes
const MaxCallbackData = 64

// Category is a single catalog entry
type Category struct {
	Key   string   `yaml:"key"`
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// HasItem reports whether item is listed in the category
func (c Category) HasItem(item string) bool {
	for _, it := range c.Items {
		if it == item {
			return true
		}
	}
	return false
}

// Catalog is the read-only menu. It is never mutated after construction.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// NewCatalog validates categories and builds a catalog preserving their order
func NewCatalog(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for i, cat := range categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("category #%d: key is required", i+1)
		}
		if strings.Contains(cat.Key, "|") {
			return nil, fmt.Errorf("category %q: key must not contain '|'", cat.Key)
		}
		if cat.Title == "" {
			return nil, fmt.Errorf("category %q: title is required", cat.Key)
		}
		if _, dup := c.index[cat.Key]; dup {
			return nil, fmt.Errorf("category %q: duplicate key", cat.Key)
		}
		if len(cat.Items) == 0 {
			return nil, fmt.Errorf("category %q: no items", cat.Key)
		}
		for _, item := range cat.Items {
			if strings.TrimSpace(item) == "" {
				return nil, fmt.Errorf("category %q: empty item name", cat.Key)
			}
			action := SelectItem(cat.Key, item)
			if n := len(action.CallbackData()); n > MaxCallbackData {
				return nil, fmt.Errorf("category %q: item %q does not fit into callback data (%d bytes)", cat.Key, item, n)
			}
			if parsed, err := ParseAction(action.CallbackData()); err != nil || parsed != action {
				return nil, fmt.Errorf("category %q: item %q does not survive callback decoding", cat.Key, item)
			}
		}

		items := make([]string, len(cat.Items))
		copy(items, cat.Items)
		c.index[cat.Key] = len(c.categories)
		c.categories = append(c.categories, Category{Key: cat.Key, Title: cat.Title, Items: items})
	}

	return c, nil
}

// Categories returns the categories in catalog order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category by key
func (c *Catalog) Category(key string) (Category, bool) {
	i, ok := c.index[key]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}
