package types

import (
	"fmt"
	"os"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// CodeImage is a compiled contract image (a serialized StateInit, ".tvc").
type CodeImage struct {
	Code *cell.Cell
	Data *cell.Cell
}

func ParseCodeImage(boc []byte) (*CodeImage, error) {
	root, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse code image: %w", err)
	}
	var si tlb.StateInit
	if err := tlb.LoadFromCell(&si, root.BeginParse()); err != nil {
		return nil, fmt.Errorf("failed to load state init: %w", err)
	}
	if si.Code == nil {
		return nil, fmt.Errorf("code image has no code")
	}
	return &CodeImage{Code: si.Code, Data: si.Data}, nil
}

func ReadCodeImage(path string) (*CodeImage, error) {
	boc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := ParseCodeImage(boc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ToBOC serializes the image back into StateInit form.
func (c *CodeImage) ToBOC() ([]byte, error) {
	root, err := tlb.ToCell(&tlb.StateInit{Code: c.Code, Data: c.Data})
	if err != nil {
		return nil, err
	}
	return root.ToBOC(), nil
}
