package yamlfile

import (
	"errors"
	"strings"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
)

// ErrNoBookmarks is returned when a file holds no usable entry.
var ErrNoBookmarks = errors.New("no valid bookmarks found in import file")

// Mapper converts an import file to lifecycle inputs
type Mapper struct{}

// NewMapper creates a new import mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map turns every entry with a URL into a CreateBookmarkInput, keeping file order.
// URL validation is left to the lifecycle service.
func (m *Mapper) Map(file File) ([]bookmarks.CreateBookmarkInput, error) {
	inputs := make([]bookmarks.CreateBookmarkInput, 0, len(file.Bookmarks))

	for _, e := range file.Bookmarks {
		u := strings.TrimSpace(e.URL)
		if u == "" {
			continue
		}
		inputs = append(inputs, bookmarks.CreateBookmarkInput{
			URL:         u,
			Title:       strings.TrimSpace(e.Title),
			Description: e.Description,
			TagString:   e.Tags,
			Shared:      e.Shared,
			Unread:      e.Unread,
		})
	}

	if len(inputs) == 0 {
		return nil, ErrNoBookmarks
	}
	return inputs, nil
}
