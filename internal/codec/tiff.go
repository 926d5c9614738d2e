package codec

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	tiff66 "github.com/garyhouston/tiff66"
)

const (
	tagXResolution    = 282
	tagYResolution    = 283
	tagResolutionUnit = 296

	tiffTypeShort    = 3
	tiffTypeRational = 5

	tiffUnitNone = 1
	tiffUnitInch = 2
	tiffUnitCM   = 3
)

// readIFD0 parses the directory tree of a TIFF file. The returned node is IFD0.
func readIFD0(data []byte) (*tiff66.IFDNode, binary.ByteOrder, error) {
	valid, order, pos := tiff66.GetHeader(data)
	if !valid {
		return nil, nil, errors.New("tiff: bad header")
	}
	root, err := tiff66.GetIFDTree(data, order, pos, tiff66.TIFFSpace)
	if err != nil {
		return nil, nil, fmt.Errorf("tiff: read IFD0: %w", err)
	}
	return root, order, nil
}

func findField(node *tiff66.IFDNode, tag uint16) *tiff66.Field {
	for i := range node.Fields {
		if node.Fields[i].Tag == tiff66.Tag(tag) {
			return &node.Fields[i]
		}
	}
	return nil
}

func fieldRational(f *tiff66.Field, order binary.ByteOrder) (float64, bool) {
	if f == nil || f.Type != tiff66.RATIONAL || f.Count < 1 || len(f.Data) < 8 {
		return 0, false
	}
	num := order.Uint32(f.Data[0:4])
	den := order.Uint32(f.Data[4:8])
	if den == 0 || num == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

func fieldShort(f *tiff66.Field, order binary.ByteOrder) (uint16, bool) {
	if f == nil || f.Type != tiff66.SHORT || f.Count < 1 || len(f.Data) < 2 {
		return 0, false
	}
	return order.Uint16(f.Data[0:2]), true
}

func readTIFFResolution(data []byte) Resolution {
	root, order, err := readIFD0(data)
	if err != nil {
		return Resolution{}
	}
	x, ok := fieldRational(findField(root, tagXResolution), order)
	if !ok {
		return Resolution{}
	}
	y, ok := fieldRational(findField(root, tagYResolution), order)
	if !ok {
		y = x
	}
	res := Resolution{X: x, Y: y, Unit: UnitPixelsPerInch}
	if unit, ok := fieldShort(findField(root, tagResolutionUnit), order); ok {
		switch unit {
		case tiffUnitNone:
			res.Unit = UnitNone
		case tiffUnitCM:
			res.Unit = UnitPixelsPerCentimeter
		}
	}
	return res
}

// stampTIFFResolution sets the three resolution fields of IFD0 and writes the
// tree back out. Fields that are missing are added.
func stampTIFFResolution(data []byte, res Resolution) ([]byte, error) {
	if res.IsZero() {
		return data, nil
	}
	root, order, err := readIFD0(data)
	if err != nil {
		return nil, err
	}

	x, y := res.X, res.Y
	unit := uint16(tiffUnitInch)
	switch res.Unit {
	case UnitNone:
		unit = tiffUnitNone
	case UnitPixelsPerCentimeter:
		unit = tiffUnitCM
	case UnitPixelsPerMeter:
		unit = tiffUnitCM
		x, y = x/100, y/100
	}

	setField(root, rationalField(order, tagXResolution, x))
	setField(root, rationalField(order, tagYResolution, y))
	setField(root, shortField(order, tagResolutionUnit, unit))
	slices.SortFunc(root.Fields, func(a, b tiff66.Field) int { return cmp.Compare(a.Tag, b.Tag) })

	root.Fix()
	out := make([]byte, tiff66.HeaderSize+root.TreeSize())
	tiff66.PutHeader(out, order, tiff66.HeaderSize)
	next, err := root.PutIFDTree(out, tiff66.HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("tiff: write IFD tree: %w", err)
	}
	return out[:next], nil
}

func setField(node *tiff66.IFDNode, field tiff66.Field) {
	if existing := findField(node, uint16(field.Tag)); existing != nil {
		*existing = field
		return
	}
	node.Fields = append(node.Fields, field)
}

func rationalField(order binary.ByteOrder, tag uint16, v float64) tiff66.Field {
	num, den := toRational(v)
	data := make([]byte, 8)
	order.PutUint32(data[0:4], num)
	order.PutUint32(data[4:8], den)
	return tiff66.Field{Tag: tiff66.Tag(tag), Type: tiff66.RATIONAL, Count: 1, Data: data}
}

func shortField(order binary.ByteOrder, tag uint16, v uint16) tiff66.Field {
	data := make([]byte, 2)
	order.PutUint16(data, v)
	return tiff66.Field{Tag: tiff66.Tag(tag), Type: tiff66.SHORT, Count: 1, Data: data}
}

func toRational(v float64) (num, den uint32) {
	if v == math.Trunc(v) {
		return clampUint32(v), 1
	}
	return clampUint32(math.Round(v * 1000)), 1000
}
