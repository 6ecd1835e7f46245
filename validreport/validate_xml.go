package validreport

import (
	"context"
	"encoding/xml"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
)

// Attributes extracted per outlier element kind.
var outlierAttrs = map[string][]string{
	"torsion-outlier":     {"phi", "psi"},
	"mog-ring-outlier":    {"atoms", "Zscore", "mean", "obsval", "stdev"},
	"mog-angle-outlier":   {"atoms", "Zscore", "mean", "obsval", "stdev"},
	"mog-torsion-outlier": {"atoms", "Zscore", "mean", "obsval", "stdev"},
	"mog-bond-outlier":    {"atoms", "Zscore", "mean", "obsval", "stdev"},
	"chiral-outlier":      {"atom", "problem"},
	"plane-outlier":       {"omega", "improper", "planeRMSD", "type"},
	"bond-outlier":        {"atom0", "atom1", "mean", "stdev", "obs", "z", "link"},
	"angle-outlier":       {"atom0", "atom1", "atom2", "mean", "stdev", "obs", "z"},
	"clash":               {"atom", "cid", "clashmag", "dist"},
}

// Entry attributes collected into the numeric summary.
var summaryAttrs = []string{
	"DCC_Rfree", "clashscore", "percent-RSRZ-outliers", "percent-rama-outliers",
	"atom_inclusion_all_atoms", "atom_inclusion_backbone", "contour_level_primary_map",
}

// Residue identifies one modelled subgroup.
type Residue struct {
	Model   string `json:"model"`
	Ent     string `json:"ent"`
	Chain   string `json:"chain"`
	ResName string `json:"resname"`
	ResNum  string `json:"resnum"`
	ICode   string `json:"icode"`
}

// Outlier is one geometry or density outlier attached to a residue.
type Outlier struct {
	Residue Residue           `json:"residue"`
	Values  map[string]string `json:"values"`
}

// ClashAtom is one partner of a close contact.
type ClashAtom struct {
	Residue  Residue `json:"residue"`
	Atom     string  `json:"atom"`
	ClashMag string  `json:"clashmag"`
	Dist     string  `json:"dist"`
}

// ReferencingOffset is one chemical shift referencing offset; Flagged is
// set when the offset is significant against its uncertainty.
type ReferencingOffset struct {
	Values  map[string]string `json:"values"`
	Flagged bool              `json:"flagged"`
}

// ChemicalShiftSummary aggregates one chemical_shift_list element.
type ChemicalShiftSummary struct {
	ErrorCount         int                 `json:"error_count"`
	WarningCount       int                 `json:"warning_count"`
	Unmapped           []map[string]string `json:"unmapped"`
	ResidueNotFound    []map[string]string `json:"residue_not_found"`
	Outliers           []map[string]string `json:"outliers"`
	ReferencingOffsets []ReferencingOffset `json:"referencing_offsets"`
}

// ValidationReport is the digested content of one validation report XML
// file.
type ValidationReport struct {
	Summary          map[string]float64    `json:"summary"`
	Outliers         map[string][]Outlier  `json:"outliers"`
	ClashPairs       [][]ClashAtom         `json:"clash_pairs"`
	RFreeDiff        float64               `json:"r_free_diff"`
	RFreeDiffFlagged bool                  `json:"r_free_diff_flagged"`
	RWorkDiff        float64               `json:"r_work_diff"`
	RWorkDiffFlagged bool                  `json:"r_work_diff_flagged"`
	LowAtomInclusion bool                  `json:"low_atom_inclusion"`
	Completeness     string                `json:"completeness,omitempty"`
	ChemicalShifts   *ChemicalShiftSummary `json:"chemical_shifts,omitempty"`
}

type anyElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []anyElement `xml:",any"`
}

func (el *anyElement) attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

type reportXml struct {
	XMLName            xml.Name     `xml:"wwPDB-validation-information"`
	Entry              anyElement   `xml:"Entry"`
	Subgroups          []anyElement `xml:"ModelledSubgroup"`
	ChemicalShiftLists []anyElement `xml:"chemical_shift_list"`
}

// ReadReport parses a validation report XML file from disk.
func ReadReport(ctx context.Context, filePath string) (*ValidationReport, error) {
	logs.WithContext(ctx).Debug("ReadReport - Start")
	f, err := os.Open(filePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	defer f.Close()
	return ParseReport(ctx, f)
}

// ParseReport digests validation report XML.
func ParseReport(ctx context.Context, r io.Reader) (*ValidationReport, error) {
	logs.WithContext(ctx).Debug("ParseReport - Start")
	var raw reportXml
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}

	report := &ValidationReport{
		Summary:  make(map[string]float64),
		Outliers: make(map[string][]Outlier),
	}
	parseEntry(&raw.Entry, report)

	clashMap := make(map[string][]ClashAtom)
	for i := range raw.Subgroups {
		parseSubgroup(&raw.Subgroups[i], report, clashMap)
	}
	// A close contact becomes a pair when two atoms share a cid; only the
	// first two partners count, and hydrogen contacts are dropped.
	for _, atoms := range clashMap {
		if len(atoms) < 2 {
			continue
		}
		if strings.HasPrefix(atoms[0].Atom, "H") || strings.HasPrefix(atoms[1].Atom, "H") {
			continue
		}
		report.ClashPairs = append(report.ClashPairs, []ClashAtom{atoms[0], atoms[1]})
	}

	if len(raw.ChemicalShiftLists) > 0 {
		report.ChemicalShifts = &ChemicalShiftSummary{}
		for i := range raw.ChemicalShiftLists {
			parseChemicalShiftList(&raw.ChemicalShiftLists[i], report.ChemicalShifts)
		}
	}
	return report, nil
}

func parseFloat(v string) (float64, bool) {
	if v == "" || v == "NotAvailable" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseEntry(entry *anyElement, report *ValidationReport) {
	for _, name := range summaryAttrs {
		if v, ok := entry.attr(name); ok {
			if f, numeric := parseFloat(v); numeric {
				report.Summary[name] = f
			}
		}
	}
	for _, name := range []string{"atom_inclusion_all_atoms", "atom_inclusion_backbone"} {
		if f, ok := report.Summary[name]; ok && f < 0.4 {
			report.LowAtomInclusion = true
		}
	}
	if v, ok := entry.attr("DataCompleteness"); ok && v != "" && v != "NotAvailable" {
		report.Completeness = v
	}
	if dcc, ok := floatAttr(entry, "DCC_Rfree"); ok {
		if pdb, ok2 := floatAttr(entry, "PDB-Rfree"); ok2 {
			report.RFreeDiff = dcc - pdb
			report.RFreeDiffFlagged = math.Abs(report.RFreeDiff) > 0.05
		}
	}
	if dcc, ok := floatAttr(entry, "DCC_R"); ok {
		if pdb, ok2 := floatAttr(entry, "PDB-R"); ok2 {
			report.RWorkDiff = dcc - pdb
			report.RWorkDiffFlagged = math.Abs(report.RWorkDiff) > 0.05
		}
	}
}

func floatAttr(el *anyElement, name string) (float64, bool) {
	v, ok := el.attr(name)
	if !ok {
		return 0, false
	}
	return parseFloat(v)
}

func residueOf(el *anyElement) Residue {
	res := Residue{}
	res.Model, _ = el.attr("model")
	res.Ent, _ = el.attr("ent")
	res.Chain, _ = el.attr("chain")
	res.ResName, _ = el.attr("resname")
	res.ResNum, _ = el.attr("resnum")
	res.ICode, _ = el.attr("icode")
	return res
}

func parseSubgroup(sub *anyElement, report *ValidationReport, clashMap map[string][]ClashAtom) {
	res := residueOf(sub)

	if rama, ok := sub.attr("rama"); ok && rama == "OUTLIER" {
		values := make(map[string]string)
		for _, a := range outlierAttrs["torsion-outlier"] {
			if v, found := sub.attr(a); found {
				values[a] = v
			}
		}
		report.Outliers["torsion-outlier"] = append(report.Outliers["torsion-outlier"],
			Outlier{Residue: res, Values: values})
	}
	if rsrz, ok := floatAttr(sub, "rsrz"); ok && rsrz > 5 {
		report.Outliers["polymer-rsrz-outlier"] = append(report.Outliers["polymer-rsrz-outlier"],
			Outlier{Residue: res, Values: map[string]string{"rsrz": mustAttr(sub, "rsrz")}})
	}
	if ligRsrz, ok := floatAttr(sub, "ligRSRZ"); ok && ligRsrz > 5 {
		report.Outliers["ligand-rsrz-outlier"] = append(report.Outliers["ligand-rsrz-outlier"],
			Outlier{Residue: res, Values: map[string]string{"ligRSRZ": mustAttr(sub, "ligRSRZ")}})
	}

	for i := range sub.Children {
		child := &sub.Children[i]
		kind := child.XMLName.Local
		attrs, known := outlierAttrs[kind]
		if !known {
			continue
		}
		if skipOutlier(kind, child) {
			continue
		}
		values := make(map[string]string)
		for _, a := range attrs {
			if v, found := child.attr(a); found {
				values[a] = v
			}
		}
		if kind == "clash" {
			if dist, ok := floatAttr(child, "dist"); ok && dist < 2.2 {
				cid, _ := child.attr("cid")
				clashMap[cid] = append(clashMap[cid], ClashAtom{
					Residue:  res,
					Atom:     values["atom"],
					ClashMag: values["clashmag"],
					Dist:     values["dist"],
				})
			}
		}
		report.Outliers[kind] = append(report.Outliers[kind], Outlier{Residue: res, Values: values})
	}
}

func mustAttr(el *anyElement, name string) string {
	v, _ := el.attr(name)
	return v
}

// skipOutlier filters outliers the annotation staff never act on:
// peptide and phosphodiester backbone link bonds, and weak Mogul
// deviations.
func skipOutlier(kind string, el *anyElement) bool {
	switch kind {
	case "bond-outlier":
		atom0, _ := el.attr("atom0")
		atom1, _ := el.attr("atom1")
		if (atom0 == "C" || atom0 == "O3'") && (atom1 == "N" || atom1 == "P") {
			return true
		}
	case "mog-angle-outlier", "mog-bond-outlier":
		if z, ok := floatAttr(el, "Zscore"); ok && math.Abs(z) <= 10 {
			return true
		}
	}
	return false
}

var unmappedAttrs = []string{"atom", "chain", "rescode", "resnum", "value", "error", "diagnostic"}
var csOutlierAttrs = []string{"atom", "chain", "rescode", "resnum", "value", "zscore", "method"}
var offsetAttrs = []string{"atom_type", "number_of_measurements", "precision", "uncertainty", "value"}

func parseChemicalShiftList(list *anyElement, summary *ChemicalShiftSummary) {
	// The mapping counts come from the list element itself, not from the
	// unmapped children it happens to carry.
	if n, ok := intAttr(list, "number_of_errors_while_mapping"); ok {
		summary.ErrorCount += n
	}
	if n, ok := intAttr(list, "number_of_warnings_while_mapping"); ok {
		summary.WarningCount += n
	}
	for i := range list.Children {
		child := &list.Children[i]
		switch child.XMLName.Local {
		case "unmapped_chemical_shift":
			entry := pickAttrs(child, unmappedAttrs)
			summary.Unmapped = append(summary.Unmapped, entry)
			if strings.HasPrefix(entry["diagnostic"], "Residue not found in structure.") {
				summary.ResidueNotFound = append(summary.ResidueNotFound, entry)
			}
		case "chemical_shift_outlier":
			summary.Outliers = append(summary.Outliers, pickAttrs(child, csOutlierAttrs))
		case "referencing_offset":
			entry := pickAttrs(child, offsetAttrs)
			offset := ReferencingOffset{Values: entry}
			value, vOk := parseFloat(entry["value"])
			uncertainty, uOk := parseFloat(entry["uncertainty"])
			_, pOk := parseFloat(entry["precision"])
			if vOk && uOk && pOk && math.Abs(value) >= uncertainty {
				offset.Flagged = true
			}
			summary.ReferencingOffsets = append(summary.ReferencingOffsets, offset)
		}
	}
}

func intAttr(el *anyElement, name string) (int, bool) {
	v, ok := el.attr(name)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func pickAttrs(el *anyElement, names []string) map[string]string {
	out := make(map[string]string)
	for _, n := range names {
		if v, ok := el.attr(n); ok {
			out[n] = v
		}
	}
	return out
}
