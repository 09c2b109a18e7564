/*
 * forcefield.go, part of goFF.
 *
 * Copyright 2026 Raul Mera A.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package toolkit

import (
	chem "github.com/rmera/goff"
	"github.com/rmera/goff/ff"
	"github.com/rmera/goff/internal/chemrt"
	"github.com/rmera/goff/units"
	"go.uber.org/zap"
)

// The parameter categories.
const (
	Bonds          = string(ff.Bonds)
	Angles         = string(ff.Angles)
	ProperTorsions = string(ff.ProperTorsions)
	VdW            = string(ff.VdW)
)

// ParameterRecord is one force-field parameter, possibly assigned to a set of atoms.
// Value is the primary quantity of the category: the equilibrium length for bonds (Å), the
// equilibrium angle for angles (degree), the first barrier k1 for torsions (kcal/mol) and
// the well depth for vdW (kcal/mol). A non-nil Parameterize marks the parameter as fittable.
type ParameterRecord struct {
	ID           string
	SMIRKS       string
	Atoms        []int
	Parameterize *string
	Value        float64
	Unit         units.Symbol
}

// Labels maps a category name to the parameters assigned to the terms of a molecule,
// in topology order.
type Labels map[string][]ParameterRecord

// field describes an attribute taken from a runtime parameter. A field with a unit is a
// quantity and is converted to it.
type field struct {
	name     string
	required bool
	unit     units.Symbol
}

// recordFields are read for every category.
var recordFields = []field{
	{name: "smirks", required: true},
	{name: "id"},
	{name: "parameterize"},
}

// primaryField is the field that fills ParameterRecord.Value.
var primaryField = map[string]field{
	Bonds:          {name: "length", required: true, unit: units.Angstrom},
	Angles:         {name: "angle", required: true, unit: units.Degree},
	ProperTorsions: {name: "k1", required: true, unit: units.KcalPerMol},
	VdW:            {name: "epsilon", required: true, unit: units.KcalPerMol},
}

// extract builds a ParameterRecord from a runtime parameter, checking the fields of the
// schema. A missing required field or a quantity that can't be converted means the runtime
// handed back something of the wrong shape.
func extract(cat string, p *ff.Parameter, atoms []int) (ParameterRecord, error) {
	pf, ok := primaryField[cat]
	if !ok {
		return ParameterRecord{}, chem.NewError(chem.ErrConfiguration, "extract", "unknown parameter category %q", cat)
	}
	attrs := p.Attrs()
	for _, f := range append(recordFields, pf) {
		if _, ok := attrs[f.name]; f.required && !ok {
			return ParameterRecord{}, chem.NewError(chem.ErrRuntimeDelegation, "extract", "%s parameter %q has no %s", cat, p.ID, f.name)
		}
	}
	rec := ParameterRecord{ID: attrs["id"], SMIRKS: attrs["smirks"], Unit: pf.unit}
	if atoms != nil {
		rec.Atoms = append([]int(nil), atoms...)
	}
	if p.Parameterize != nil {
		s := *p.Parameterize
		rec.Parameterize = &s
	}
	q, err := p.Quantity(pf.name)
	if err != nil {
		return ParameterRecord{}, chem.WrapError(chem.ErrRuntimeDelegation, err, "extract", "%s parameter %q", cat, p.ID)
	}
	if rec.Value, err = q.In(pf.unit); err != nil {
		return ParameterRecord{}, chem.WrapError(chem.ErrRuntimeDelegation, err, "extract", "%s parameter %q", cat, p.ID)
	}
	return rec, nil
}

func records(cat string, assigned []ff.Assignment) ([]ParameterRecord, error) {
	ret := make([]ParameterRecord, 0, len(assigned))
	for _, a := range assigned {
		r, err := extract(cat, a.Parameter, a.Atoms)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

/*** ForceField ***/

// Option modifies how a force field is loaded.
type Option func(*ff.Options)

// AllowCosmeticAttributes makes the force field accept parameter attributes it does not
// use, such as "parameterize". It is fixed for the lifetime of the force field.
func AllowCosmeticAttributes() Option {
	return func(o *ff.Options) { o.AllowCosmeticAttributes = true }
}

// SearchPath adds directories where force-field files are looked for.
func SearchPath(dirs ...string) Option {
	return func(o *ff.Options) { o.SearchPath = append(o.SearchPath, dirs...) }
}

// ForceField is a handle to a loaded SMIRNOFF force field. A force field does not change
// after loading, so its name and skipped sections are read once.
type ForceField struct {
	handle
	ff      *ff.ForceField
	name    string
	skipped []string
}

// BundledForceField is the force field compiled into goFF, a subset of Sage 2.1.0.
const BundledForceField = ff.SageSubset

// NewForceField loads a force field by file name: a path, a file in the search path or one
// of the force fields bundled with goFF (BundledForceField). The complete Sage force field,
// "openff-2.1.0.offxml", is only found through the search path.
func NewForceField(name string, opts ...Option) (*ForceField, error) {
	var o ff.Options
	for _, opt := range opts {
		opt(&o)
	}
	return chemrt.Call(rt, "NewForceField", func() (*ForceField, error) {
		F, err := ff.Load(name, o)
		if err != nil {
			return nil, err
		}
		return &ForceField{handle: handle{rt.NewHandle("forcefield")}, ff: F, name: F.Name, skipped: F.Skipped()}, nil
	})
}

// Name returns the name the force field was loaded with.
func (F *ForceField) Name() string {
	return F.name
}

// Skipped returns the sections of the force field that goFF does not apply.
func (F *ForceField) Skipped() []string {
	return append([]string(nil), F.skipped...)
}

// ParameterHandler returns the handler of a category. It fails with chem.ErrConfiguration
// if the force field has no such handler.
func (F *ForceField) ParameterHandler(category string) (*ParameterHandler, error) {
	return chemrt.Call(rt, "ParameterHandler", func() (*ParameterHandler, error) {
		h, err := F.ff.Handler(ff.Category(category))
		if err != nil {
			return nil, err
		}
		return &ParameterHandler{handle: handle{rt.NewHandle("handler")}, h: h, category: string(h.Category())}, nil
	})
}

// LabelMolecules assigns parameters to the terms of the topology and returns those of its
// first molecule, for every category the force field has a handler for.
func (F *ForceField) LabelMolecules(top *Topology) (Labels, error) {
	if top == nil {
		return nil, chem.NewError(chem.ErrPrecondition, "LabelMolecules", "nil topology")
	}
	return chemrt.Call(rt, "LabelMolecules", func() (Labels, error) {
		all := F.ff.LabelMolecules(top.top)
		ret := make(Labels)
		for cat, assigned := range all[0] {
			recs, err := records(string(cat), assigned)
			if err != nil {
				return nil, err
			}
			ret[string(cat)] = recs
		}
		rt.Logger().Debug("labeled topology", zap.String("forcefield", F.ff.Name), zap.Int("molecules", len(all)), zap.Int("bonds", len(ret[Bonds])))
		return ret, nil
	})
}

// ParameterHandler is a handle to the parameters of one category of a force field.
type ParameterHandler struct {
	handle
	h        *ff.ParameterHandler
	category string
}

// Category returns the name of the category of the handler.
func (H *ParameterHandler) Category() string {
	return H.category
}

// Parameters returns the parameters of the handler in file order, with no atoms.
func (H *ParameterHandler) Parameters() ([]ParameterRecord, error) {
	return chemrt.Call(rt, "Parameters", func() ([]ParameterRecord, error) {
		ps := H.h.Parameters()
		ret := make([]ParameterRecord, 0, len(ps))
		for _, p := range ps {
			r, err := extract(H.category, p, nil)
			if err != nil {
				return nil, err
			}
			ret = append(ret, r)
		}
		return ret, nil
	})
}
