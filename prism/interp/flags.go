package interp

import (
	"errors"
	"fmt"
	"strings"
)

var _ = fmt.Print

const (
	MaxInputDimensions = 15
	MaxStageChannels   = 128
)

type Flags uint32

const (
	Flag16Bits    Flags = 0
	FlagFloat     Flags = 0x0001
	FlagTrilinear Flags = 0x0100
)

func (f Flags) IsFloat() bool     { return f&FlagFloat != 0 }
func (f Flags) IsTrilinear() bool { return f&FlagTrilinear != 0 }

func (f Flags) String() string {
	items := []string{IfElse(f.IsFloat(), "float", "16bit")}
	if f.IsTrilinear() {
		items = append(items, "trilinear")
	}
	if rest := f &^ (FlagFloat | FlagTrilinear); rest != 0 {
		items = append(items, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(items, "|")
}

var (
	// A channel or dimension count is outside the supported range
	ErrRange = errors.New("interpolation dimensions out of range")
	// No interpolation routine exists for the requested shape
	ErrUnsupported = errors.New("unsupported interpolation")
	// The grid description does not match the table
	ErrInvalidGrid = errors.New("invalid interpolation grid")
)

func IfElse[T any](condition bool, if_val T, else_val T) T {
	if condition {
		return if_val
	}
	return else_val
}
