/*
 * ff.go, part of goFF.
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

// Package ff reads SMIRNOFF force fields (.offxml) and assigns their parameters
// to the terms of a molecular topology.
//
// Only the handlers the mm engine evaluates are turned into ParameterHandlers:
// Bonds, Angles, ProperTorsions and vdW. Every other section of the file is kept by
// name in ForceField.Skipped so callers can report it.
package ff

import (
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	chem "github.com/rmera/goff"
	"github.com/rmera/goff/smarts"
	"github.com/rmera/goff/units"
)

// SageSubset is the name of the bundled force field: the Sage 2.1.0 parameters for
// hydrocarbons, aromatics, alcohols, ethers, carbonyls, amines, thiols and halides, singly
// bonded N and S only. Molecules it does not cover fail with chem.ErrParameterization.
// The complete openff-2.1.0.offxml is only loaded from the search path.
const SageSubset = "goff-sage-2.1.0-subset.offxml"

//go:embed data/*.offxml
var bundled embed.FS

// Category names a parameter handler, spelled as the SMIRNOFF section.
type Category string

const (
	Bonds          Category = "Bonds"
	Angles         Category = "Angles"
	ProperTorsions Category = "ProperTorsions"
	VdW            Category = "vdW"
)

// Categories lists the supported handlers in the order they are applied.
var Categories = []Category{Bonds, Angles, ProperTorsions, VdW}

// Atoms returns the number of tagged atoms a SMIRKS of the category has.
func (C Category) Atoms() int {
	switch C {
	case Bonds:
		return 2
	case Angles:
		return 3
	case ProperTorsions:
		return 4
	case VdW:
		return 1
	}
	return 0
}

// element tag of the parameters of each handler section.
var paramTag = map[Category]string{
	Bonds:          "Bond",
	Angles:         "Angle",
	ProperTorsions: "Proper",
	VdW:            "Atom",
}

// Options are fixed when a force field is loaded.
type Options struct {
	//Keep attributes that the handlers do not use (such as "parameterize")
	//instead of rejecting the file.
	AllowCosmeticAttributes bool
	//Directories searched, in order, before the bundled force fields.
	SearchPath []string
}

// Error is the error type of the ff package. It records the force field file involved.
type Error struct {
	message  string
	filename string
	kind     error
	err      error
	deco     []string
}

func (err *Error) Error() string {
	s := fmt.Sprintf("%s: %s: %s", err.kind, err.filename, err.message)
	if err.err != nil {
		s += ": " + err.err.Error()
	}
	return s
}

// FileName returns the force field the error refers to.
func (err *Error) FileName() string { return err.filename }

// Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *Error) Unwrap() []error {
	if err.err == nil {
		return []error{err.kind}
	}
	return []error{err.kind, err.err}
}

func newError(kind error, filename, caller, format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...), filename: filename, kind: kind, deco: []string{caller}}
}

// Parameter is one entry of a handler section.
type Parameter struct {
	ID     string
	SMIRKS string
	//Non-nil if the parameter carries a "parameterize" attribute, which marks
	//the listed fields as fittable.
	Parameterize *string
	attrs        map[string]string
	pattern      *smarts.Pattern
}

// Attr returns the raw value of an attribute of the parameter.
func (P *Parameter) Attr(name string) (string, bool) {
	v, ok := P.attrs[name]
	return v, ok
}

// Attrs returns a copy of all the attributes of the parameter, as written in the file.
func (P *Parameter) Attrs() map[string]string {
	ret := make(map[string]string, len(P.attrs))
	for k, v := range P.attrs {
		ret[k] = v
	}
	return ret
}

// Quantity returns the attribute name as a physical quantity.
func (P *Parameter) Quantity(name string) (units.Value, error) {
	s, ok := P.attrs[name]
	if !ok {
		return units.Value{}, chem.NewError(chem.ErrConfiguration, "Parameter.Quantity", "parameter %s has no attribute %q", P.ID, name)
	}
	v, err := units.Parse(s)
	if err != nil {
		return units.Value{}, chem.WrapError(chem.ErrConfiguration, err, "Parameter.Quantity", "parameter %s, attribute %s", P.ID, name)
	}
	return v, nil
}

// Float returns the attribute name as a plain number.
func (P *Parameter) Float(name string) (float64, error) {
	s, ok := P.attrs[name]
	if !ok {
		return 0, chem.NewError(chem.ErrConfiguration, "Parameter.Float", "parameter %s has no attribute %q", P.ID, name)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, chem.WrapError(chem.ErrConfiguration, err, "Parameter.Float", "parameter %s, attribute %s", P.ID, name)
	}
	return f, nil
}

// Terms returns the number of Fourier terms of a torsion parameter (the largest n
// such that periodicity1 through periodicityn are present), 0 for other parameters.
func (P *Parameter) Terms() int {
	n := 0
	for {
		if _, ok := P.attrs["periodicity"+strconv.Itoa(n+1)]; !ok {
			return n
		}
		n++
	}
}

// Pattern returns the compiled SMIRKS of the parameter.
func (P *Parameter) Pattern() *smarts.Pattern {
	return P.pattern
}

// ParameterHandler holds the parameters of one category, in file order.
type ParameterHandler struct {
	category Category
	attrs    map[string]string
	params   []*Parameter
}

// Category returns the category of the handler.
func (H *ParameterHandler) Category() Category {
	return H.category
}

// Parameters returns the parameters of the handler in the order they appear in the file.
// Later parameters take precedence over earlier ones.
func (H *ParameterHandler) Parameters() []*Parameter {
	return append([]*Parameter(nil), H.params...)
}

// Attr returns an attribute of the handler section, e.g. "scale14" for vdW.
func (H *ParameterHandler) Attr(name string) (string, bool) {
	v, ok := H.attrs[name]
	return v, ok
}

// Parameter returns the parameter with the given id, or nil.
func (H *ParameterHandler) Parameter(id string) *Parameter {
	for _, p := range H.params {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ForceField is a loaded SMIRNOFF force field. It is not modified after loading.
type ForceField struct {
	Name        string
	Version     string
	Aromaticity string
	Author      string
	handlers    map[Category]*ParameterHandler
	skipped     []string
	opts        Options
}

// Handler returns the handler for the category, with a chem.ErrConfiguration error if the
// force field does not define it.
func (F *ForceField) Handler(cat Category) (*ParameterHandler, error) {
	h, ok := F.handlers[cat]
	if !ok {
		return nil, newError(chem.ErrConfiguration, F.Name, "ForceField.Handler", "no %s handler in the force field", cat)
	}
	return h, nil
}

// Skipped returns the names of the sections of the file that this package does not evaluate,
// in file order.
func (F *ForceField) Skipped() []string {
	return append([]string(nil), F.skipped...)
}

// Options returns the options the force field was loaded with.
func (F *ForceField) Options() Options {
	return F.opts
}

// Bundled returns the names of the force fields compiled into the library.
func Bundled() []string {
	entries, err := bundled.ReadDir("data")
	if err != nil {
		return nil
	}
	var ret []string
	for _, e := range entries {
		ret = append(ret, e.Name())
	}
	sort.Strings(ret)
	return ret
}

// Load finds the force field name and parses it. name can be a path, or a file name that is
// looked up in opts.SearchPath and then among the bundled force fields. Files ending in
// ".gz" are decompressed.
func Load(name string, opts Options) (*ForceField, error) {
	r, err := open(name, opts.SearchPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var in io.Reader = r
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, &Error{message: "bad gzip stream", filename: name, kind: chem.ErrConfiguration, err: err, deco: []string{"Load"}}
		}
		defer gz.Close()
		in = gz
	}
	F, err := Parse(in, name, opts)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Load")
	}
	return F, nil
}

func open(name string, path []string) (io.ReadCloser, error) {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		f, err := os.Open(name)
		if err != nil {
			return nil, &Error{message: "cannot open", filename: name, kind: chem.ErrConfiguration, err: err, deco: []string{"Load"}}
		}
		return f, nil
	}
	for _, dir := range path {
		f, err := os.Open(filepath.Join(dir, name))
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{message: "cannot open", filename: filepath.Join(dir, name), kind: chem.ErrConfiguration, err: err, deco: []string{"Load"}}
		}
	}
	f, err := bundled.Open("data/" + name)
	if err != nil {
		return nil, newError(chem.ErrConfiguration, name, "Load", "force field not found in %v nor among the bundled ones %v", path, Bundled())
	}
	return f, nil
}

// node is a generic element of the XML tree.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (n *node) attrMap() map[string]string {
	ret := make(map[string]string, len(n.Attrs))
	for _, a := range n.Attrs {
		ret[a.Name.Local] = a.Value
	}
	return ret
}

// Parse reads a force field in SMIRNOFF XML from r. name is only used to identify it.
func Parse(r io.Reader, name string, opts Options) (*ForceField, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, &Error{message: "malformed XML", filename: name, kind: chem.ErrConfiguration, err: err, deco: []string{"Parse"}}
	}
	if root.XMLName.Local != "SMIRNOFF" {
		return nil, newError(chem.ErrConfiguration, name, "Parse", "root element is %q, not SMIRNOFF", root.XMLName.Local)
	}
	ra := root.attrMap()
	F := &ForceField{Name: name, Version: ra["version"], Aromaticity: ra["aromaticity_model"], handlers: make(map[Category]*ParameterHandler), opts: opts}
	for i := range root.Children {
		sec := &root.Children[i]
		tag := sec.XMLName.Local
		switch tag {
		case "Author":
			F.Author = strings.TrimSpace(sec.Text)
			continue
		case "Date":
			continue
		}
		cat := Category(tag)
		if _, ok := paramTag[cat]; !ok {
			F.skipped = append(F.skipped, tag)
			continue
		}
		h, err := F.handler(cat, sec)
		if err != nil {
			return nil, chem.ErrDecorate(err, "Parse")
		}
		F.handlers[cat] = h
	}
	return F, nil
}

// handler builds (or extends, if the section appears twice) the handler of a category.
func (F *ForceField) handler(cat Category, sec *node) (*ParameterHandler, error) {
	h, ok := F.handlers[cat]
	if !ok {
		h = &ParameterHandler{category: cat, attrs: make(map[string]string)}
	}
	for k, v := range sec.attrMap() {
		h.attrs[k] = v
	}
	if err := checkHandler(cat, h.attrs); err != nil {
		return nil, newError(chem.ErrConfiguration, F.Name, "ForceField.handler", "%s: %s", cat, err)
	}
	for i := range sec.Children {
		c := &sec.Children[i]
		if c.XMLName.Local != paramTag[cat] {
			return nil, newError(chem.ErrConfiguration, F.Name, "ForceField.handler", "unexpected %s element in %s", c.XMLName.Local, cat)
		}
		p, err := F.parameter(cat, c.attrMap())
		if err != nil {
			return nil, err
		}
		h.params = append(h.params, p)
	}
	return h, nil
}

// what each handler section must say for the engine to evaluate it.
var handlerRequires = map[Category]map[string]string{
	Bonds:          {"potential": "harmonic"},
	Angles:         {"potential": "harmonic"},
	ProperTorsions: {"potential": "k*(1+cos(periodicity*theta-phase))"},
	VdW:            {"potential": "Lennard-Jones-12-6", "combining_rules": "Lorentz-Berthelot"},
}

func checkHandler(cat Category, attrs map[string]string) error {
	for k, want := range handlerRequires[cat] {
		if v, ok := attrs[k]; ok && v != want {
			return fmt.Errorf("unsupported %s %q", k, v)
		}
	}
	if cat == VdW {
		for _, s := range []string{"scale12", "scale13", "scale14", "scale15"} {
			v, ok := attrs[s]
			if !ok {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("bad %s %q", s, v)
			}
		}
	}
	return nil
}

// field is an attribute that a parameter of some category uses, and the dimension it must have.
// An empty dim means a plain number.
type field struct {
	dim      units.Symbol
	required bool
}

var commonFields = map[string]field{"smirks": {required: true}, "id": {}, "parent_id": {}}

var paramFields = map[Category]map[string]field{
	Bonds: {
		"length": {dim: units.Angstrom, required: true},
		"k":      {dim: units.KcalPerMolA2, required: true},
	},
	Angles: {
		"angle": {dim: units.Degree, required: true},
		"k":     {dim: units.KcalPerMolRad2, required: true},
	},
	VdW: {
		"epsilon":   {dim: units.KcalPerMol, required: true},
		"rmin_half": {dim: units.Angstrom},
		"sigma":     {dim: units.Angstrom},
	},
}

var torsionField = regexp.MustCompile(`^(periodicity|phase|k|idivf)([1-9][0-9]*)$`)

var torsionDims = map[string]field{
	"periodicity": {},
	"phase":       {dim: units.Degree},
	"k":           {dim: units.KcalPerMol},
	"idivf":       {},
}

// fieldOf returns the definition of an attribute, and false if the category does not use it.
func fieldOf(cat Category, name string) (field, bool) {
	if f, ok := commonFields[name]; ok {
		return f, true
	}
	if cat == ProperTorsions {
		m := torsionField.FindStringSubmatch(name)
		if m == nil {
			return field{}, false
		}
		return torsionDims[m[1]], true
	}
	f, ok := paramFields[cat][name]
	return f, ok
}

func (F *ForceField) parameter(cat Category, attrs map[string]string) (*Parameter, error) {
	P := &Parameter{ID: attrs["id"], SMIRKS: attrs["smirks"], attrs: attrs}
	bad := func(format string, a ...any) error {
		return newError(chem.ErrConfiguration, F.Name, "ForceField.parameter", "%s parameter %q: %s", cat, P.ID, fmt.Sprintf(format, a...))
	}
	for name, val := range attrs {
		f, ok := fieldOf(cat, name)
		if !ok {
			if !F.opts.AllowCosmeticAttributes {
				return nil, bad("unknown attribute %q (cosmetic attributes are not allowed)", name)
			}
			if name == "parameterize" {
				v := val
				P.Parameterize = &v
			}
			continue
		}
		if f.dim == "" {
			if name == "smirks" || name == "id" || name == "parent_id" {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err != nil {
				return nil, bad("attribute %s is not a number: %q", name, val)
			}
			continue
		}
		v, err := units.Parse(val)
		if err != nil {
			return nil, bad("attribute %s: %v", name, err)
		}
		if !units.Compatible(v.Unit, f.dim) {
			return nil, bad("attribute %s has units %q, incompatible with %q", name, v.Unit, f.dim)
		}
	}
	for name, f := range commonFields {
		if _, ok := attrs[name]; f.required && !ok {
			return nil, bad("missing %s", name)
		}
	}
	for name, f := range paramFields[cat] {
		if _, ok := attrs[name]; f.required && !ok {
			return nil, bad("missing %s", name)
		}
	}
	switch cat {
	case VdW:
		_, r := attrs["rmin_half"]
		_, s := attrs["sigma"]
		if r == s {
			return nil, bad("exactly one of rmin_half and sigma is needed")
		}
	case ProperTorsions:
		n := P.Terms()
		if n == 0 {
			return nil, bad("no periodicity1")
		}
		for i := 1; i <= n; i++ {
			for _, pre := range []string{"phase", "k"} {
				if _, ok := attrs[pre+strconv.Itoa(i)]; !ok {
					return nil, bad("missing %s%d", pre, i)
				}
			}
		}
	}
	pat, err := smarts.Compile(P.SMIRKS)
	if err != nil {
		return nil, &Error{message: fmt.Sprintf("%s parameter %q", cat, P.ID), filename: F.Name, kind: chem.ErrConfiguration, err: err, deco: []string{"ForceField.parameter"}}
	}
	if pat.Tagged() != cat.Atoms() {
		return nil, bad("SMIRKS %q tags %d atoms, %d expected", P.SMIRKS, pat.Tagged(), cat.Atoms())
	}
	P.pattern = pat
	return P, nil
}
