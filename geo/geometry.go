// Package geo adapts WKB-encoded geometry columns to binary expressions.
//
// WKB values are plain binary data, so the header of every value can be
// inspected with the bin namespace of package expr: the first byte is the
// byte order and the next four bytes the geometry type code. The helpers
// here build those expressions and convert between orb geometries and
// WKB for fixtures and results.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// ExtensionName is the Arrow extension name of WKB geometry columns.
const ExtensionName = "geoarrow.wkb"

// ErrInvalidGeometry is returned for geometries that cannot be stored as WKB.
var ErrInvalidGeometry = errors.New("invalid geometry")

// GeometryExtensionType marks a binary column as WKB geometries.
// The evaluator reads such columns through their binary storage.
type GeometryExtensionType struct {
	arrow.ExtensionBase
}

// NewGeometryExtensionType creates a geometry extension type over binary storage.
func NewGeometryExtensionType() *GeometryExtensionType {
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{Storage: arrow.BinaryTypes.Binary},
	}
}

// GeometryArray is the array type of geometry columns.
type GeometryArray struct {
	array.ExtensionArrayBase
}

func (g *GeometryExtensionType) ArrayType() reflect.Type {
	return reflect.TypeOf(GeometryArray{})
}

func (g *GeometryExtensionType) ExtensionName() string { return ExtensionName }

func (g *GeometryExtensionType) String() string { return "extension<" + ExtensionName + ">" }

func (g *GeometryExtensionType) Serialize() string { return "" }

// Deserialize accepts binary and large_binary storage.
func (g *GeometryExtensionType) Deserialize(storageType arrow.DataType, _ string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storageType, arrow.BinaryTypes.Binary) &&
		!arrow.TypeEqual(storageType, arrow.BinaryTypes.LargeBinary) {
		return nil, fmt.Errorf("invalid storage type for geometry: %s (expected binary or large_binary)", storageType)
	}
	return &GeometryExtensionType{ExtensionBase: arrow.ExtensionBase{Storage: storageType}}, nil
}

func (g *GeometryExtensionType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*GeometryExtensionType)
	return ok && arrow.TypeEqual(g.StorageType(), o.StorageType())
}

// fieldMetadata is the GeoArrow column metadata.
type fieldMetadata struct {
	CRS           *crs     `json:"crs,omitempty"`
	Encoding      string   `json:"encoding,omitempty"`
	GeometryTypes []string `json:"geometry_types,omitempty"`
}

type crs struct {
	ID crsID `json:"id"`
}

type crsID struct {
	Authority string `json:"authority"`
	Code      int    `json:"code"`
}

// NewGeometryField returns a geometry field tagged with an EPSG srid.
// An empty geomType or "GEOMETRY" allows any geometry type.
func NewGeometryField(name string, nullable bool, srid int, geomType string) arrow.Field {
	meta := fieldMetadata{
		CRS:      &crs{ID: crsID{Authority: "EPSG", Code: srid}},
		Encoding: "WKB",
	}
	if geomType != "" && geomType != "GEOMETRY" {
		meta.GeometryTypes = []string{geomType}
	}
	data, _ := json.Marshal(meta)

	return arrow.Field{
		Name:     name,
		Type:     NewGeometryExtensionType(),
		Nullable: nullable,
		Metadata: arrow.MetadataFrom(map[string]string{
			"ARROW:extension:name":     ExtensionName,
			"ARROW:extension:metadata": string(data),
			"srid":                     strconv.Itoa(srid),
			"geometry_type":            geomType,
		}),
	}
}

// Encode validates geom and marshals it to little endian WKB.
func Encode(geom orb.Geometry) ([]byte, error) {
	if err := Validate(geom); err != nil {
		return nil, err
	}
	return wkb.Marshal(geom)
}

// Decode unmarshals WKB bytes.
func Decode(data []byte) (orb.Geometry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty WKB data", ErrInvalidGeometry)
	}
	return wkb.Unmarshal(data)
}

// Validate checks that geom can be stored as WKB.
func Validate(geom orb.Geometry) error {
	switch g := geom.(type) {
	case nil:
		return fmt.Errorf("%w: nil", ErrInvalidGeometry)
	case orb.Point:
		return nil
	case orb.MultiPoint:
		if len(g) == 0 {
			return fmt.Errorf("%w: multipoint is empty", ErrInvalidGeometry)
		}
	case orb.LineString:
		if len(g) < 2 {
			return fmt.Errorf("%w: linestring has %d points", ErrInvalidGeometry, len(g))
		}
	case orb.MultiLineString:
		if len(g) == 0 {
			return fmt.Errorf("%w: multilinestring is empty", ErrInvalidGeometry)
		}
		for i, ls := range g {
			if err := Validate(ls); err != nil {
				return fmt.Errorf("multilinestring[%d]: %w", i, err)
			}
		}
	case orb.Polygon:
		if len(g) == 0 {
			return fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
		}
		for i, ring := range g {
			if len(ring) < 4 || !ring[0].Equal(ring[len(ring)-1]) {
				return fmt.Errorf("%w: polygon ring %d is not closed", ErrInvalidGeometry, i)
			}
		}
	case orb.MultiPolygon:
		if len(g) == 0 {
			return fmt.Errorf("%w: multipolygon is empty", ErrInvalidGeometry)
		}
		for i, p := range g {
			if err := Validate(p); err != nil {
				return fmt.Errorf("multipolygon[%d]: %w", i, err)
			}
		}
	case orb.Collection:
		for i, c := range g {
			if err := Validate(c); err != nil {
				return fmt.Errorf("collection[%d]: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("%w: %T cannot be stored as WKB", ErrInvalidGeometry, geom)
	}
	return nil
}

// WKB geometry type codes.
const (
	TypePoint              uint32 = 1
	TypeLineString         uint32 = 2
	TypePolygon            uint32 = 3
	TypeMultiPoint         uint32 = 4
	TypeMultiLineString    uint32 = 5
	TypeMultiPolygon       uint32 = 6
	TypeGeometryCollection uint32 = 7
)

// TypeName returns the WKB name of a type code, or "Unknown".
func TypeName(code uint32) string {
	switch code {
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPoint:
		return "MultiPoint"
	case TypeMultiLineString:
		return "MultiLineString"
	case TypeMultiPolygon:
		return "MultiPolygon"
	case TypeGeometryCollection:
		return "GeometryCollection"
	}
	return "Unknown"
}

func init() {
	_ = arrow.RegisterExtensionType(NewGeometryExtensionType())
}
