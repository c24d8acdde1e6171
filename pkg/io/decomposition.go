package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/matzehuels/rauzy/pkg/cylinder"
	"github.com/matzehuels/rauzy/pkg/errors"
	"github.com/matzehuels/rauzy/pkg/induction"
	"github.com/matzehuels/rauzy/pkg/perm"
)

// DecompositionDoc is a cylinder decomposition together with its input.
type DecompositionDoc struct {
	Perm    perm.Permutation           `json:"perm"`
	Lengths induction.Lengths[big.Int] `json:"lengths"`
	Heights induction.Lengths[big.Int] `json:"heights,omitempty"`
	*cylinder.Decomposition
}

// MarshalDecomposition encodes doc as indented JSON.
func MarshalDecomposition(doc DecompositionDoc) ([]byte, error) {
	if doc.Decomposition == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing decomposition")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// UnmarshalDecomposition decodes a decomposition document and checks that
// it is consistent: lengths valid for the permutation, every cylinder
// positive, every label in exactly one cylinder and the cylinder areas
// adding up to the area of the input.
func UnmarshalDecomposition(data []byte) (DecompositionDoc, error) {
	var doc DecompositionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return DecompositionDoc{}, fmt.Errorf("decode: %w", err)
	}
	if err := checkDecomposition(doc); err != nil {
		return DecompositionDoc{}, err
	}
	return doc, nil
}

func checkDecomposition(doc DecompositionDoc) error {
	p := doc.Perm
	if p.Len() == 0 || doc.Decomposition == nil {
		return errors.New(errors.ErrCodeInvalidInput, "decomposition document needs perm and cylinders")
	}
	if err := induction.Validate[big.Int](p, doc.Lengths); err != nil {
		return err
	}
	heights := doc.Heights
	if heights == nil {
		heights = make(induction.Lengths[big.Int], p.Len())
		for _, l := range p.Alphabet() {
			heights[l] = big.NewInt(1)
		}
	}
	if err := induction.Validate[big.Int](p, heights); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLengths, err, "heights")
	}

	area := new(big.Int)
	for _, l := range p.Alphabet() {
		area.Add(area, new(big.Int).Mul(doc.Lengths[l], heights[l]))
	}
	seen := make(map[string]bool, p.Len())
	for i, c := range doc.Cylinders {
		if c.Circumference == nil || c.Height == nil || c.Circumference.Sign() <= 0 || c.Height.Sign() <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "cylinder %d is degenerate", i)
		}
		for _, l := range c.Labels {
			if !p.Has(l) || seen[l] {
				return errors.New(errors.ErrCodeInvalidInput, "cylinder %d: label %q unknown or repeated", i, l)
			}
			seen[l] = true
		}
	}
	if len(seen) != p.Len() {
		return errors.New(errors.ErrCodeInvalidInput, "cylinders cover %d of %d labels", len(seen), p.Len())
	}
	if got := doc.Area(); got.Cmp(area) != 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cylinder area %s differs from input area %s", got, area)
	}
	return nil
}

// WriteDecomposition encodes doc and writes it to w.
func WriteDecomposition(doc DecompositionDoc, w io.Writer) error {
	data, err := MarshalDecomposition(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadDecomposition decodes a decomposition document from r.
func ReadDecomposition(r io.Reader) (DecompositionDoc, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return DecompositionDoc{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalDecomposition(data)
}
