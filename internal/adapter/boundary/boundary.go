// Package boundary reads canonical place names from an administrative
// boundary GeoJSON file.
package boundary

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

// File implements domain.PlaceSource over a GeoJSON FeatureCollection whose
// features carry the place name in a string property.
type File struct {
	path     string
	property string
}

// NewFile creates a place source reading the named property of each feature
// in the FeatureCollection at path.
func NewFile(path, property string) *File {
	return &File{path: path, property: property}
}

// PlaceNames returns one name per feature, in file order.
func (f *File) PlaceNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read boundaries: %w", domain.ErrStorage, err)
	}
	return parseNames(data, f.property)
}

func parseNames(data []byte, property string) ([]string, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode boundaries: %w", domain.ErrStorage, err)
	}

	names := make([]string, 0, len(fc.Features))
	for i, feat := range fc.Features {
		name, ok := feat.Properties[property].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: feature %d has no %q property", domain.ErrStorage, i, property)
		}
		names = append(names, name)
	}
	return names, nil
}
