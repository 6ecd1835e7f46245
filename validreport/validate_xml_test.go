package validreport

import (
	"context"
	"math"
	"strings"
	"testing"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<wwPDB-validation-information>
 <Entry pdbid="1abc" DCC_Rfree="0.30" PDB-Rfree="0.22" DCC_R="0.25" PDB-R="0.23"
        clashscore="12.5" percent-RSRZ-outliers="4.1" percent-rama-outliers="NotAvailable"
        atom_inclusion_all_atoms="0.35" atom_inclusion_backbone="0.80" DataCompleteness="0.85"/>
 <ModelledSubgroup model="1" ent="1" chain="A" resname="ALA" resnum="10" icode=" " rama="OUTLIER" phi="-150.0" psi="30.0" rsrz="6.2"/>
 <ModelledSubgroup model="1" ent="1" chain="A" resname="GLY" resnum="11" icode=" " rama="Favored">
  <bond-outlier atom0="C" atom1="N" mean="1.33" stdev="0.01" obs="1.45" z="12.0" link="yes"/>
  <bond-outlier atom0="CA" atom1="CB" mean="1.52" stdev="0.02" obs="1.70" z="9.0"/>
  <mog-bond-outlier atoms="C1-C2" Zscore="5.0" mean="1.5" obsval="1.6" stdev="0.02"/>
  <mog-angle-outlier atoms="C1-C2-C3" Zscore="15.0" mean="110" obsval="125" stdev="1.0"/>
  <clash atom="CB" cid="1" clashmag="0.6" dist="2.1"/>
  <clash atom="N1" cid="3" clashmag="0.4" dist="2.0"/>
 </ModelledSubgroup>
 <ModelledSubgroup model="1" ent="1" chain="B" resname="LIG" resnum="201" icode=" " ligRSRZ="7.5">
  <clash atom="O1" cid="1" clashmag="0.6" dist="2.1"/>
  <clash atom="H5" cid="2" clashmag="0.5" dist="2.0"/>
  <clash atom="CD" cid="2" clashmag="0.5" dist="2.0"/>
  <clash atom="C2" cid="3" clashmag="0.4" dist="2.0"/>
  <clash atom="C3" cid="3" clashmag="0.4" dist="2.0"/>
 </ModelledSubgroup>
 <chemical_shift_list number_of_errors_while_mapping="1" number_of_warnings_while_mapping="1">
  <unmapped_chemical_shift atom="CA" chain="A" rescode="ALA" resnum="5" value="52.1" error="error" diagnostic="Residue not found in structure. Check sequence."/>
  <unmapped_chemical_shift atom="CB" chain="A" rescode="GLY" resnum="6" value="31.0" error="warning" diagnostic="Ambiguous mapping."/>
  <chemical_shift_outlier atom="HA" chain="A" rescode="VAL" resnum="7" value="9.5" zscore="6.1" method="RCI"/>
  <referencing_offset atom_type="C" number_of_measurements="120" precision="0.1" uncertainty="0.3" value="1.2"/>
  <referencing_offset atom_type="N" number_of_measurements="80" precision="0.1" uncertainty="0.5" value="0.2"/>
 </chemical_shift_list>
</wwPDB-validation-information>
`

func parseSample(t *testing.T) *ValidationReport {
	t.Helper()
	report, err := ParseReport(context.Background(), strings.NewReader(sampleReport))
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func TestSummaryValues(t *testing.T) {
	report := parseSample(t)

	if got := report.Summary["clashscore"]; got != 12.5 {
		t.Errorf("clashscore: got %v", got)
	}
	if got := report.Summary["percent-RSRZ-outliers"]; got != 4.1 {
		t.Errorf("rsrz percent: got %v", got)
	}
	if _, ok := report.Summary["percent-rama-outliers"]; ok {
		t.Error("NotAvailable must be skipped")
	}
	if !report.LowAtomInclusion {
		t.Error("atom inclusion 0.35 must flag")
	}
	if report.Completeness != "0.85" {
		t.Errorf("completeness: got %q", report.Completeness)
	}
}

func TestCompletenessNotAvailable(t *testing.T) {
	doc := `<wwPDB-validation-information>
 <Entry pdbid="1abc" DataCompleteness="NotAvailable"/>
</wwPDB-validation-information>`
	report, err := ParseReport(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if report.Completeness != "" {
		t.Errorf("NotAvailable must be skipped, got %q", report.Completeness)
	}
}

func TestRValueDifferences(t *testing.T) {
	report := parseSample(t)

	if !report.RFreeDiffFlagged {
		t.Error("Rfree diff 0.08 must flag")
	}
	if math.Abs(report.RFreeDiff-0.08) > 1e-9 {
		t.Errorf("Rfree diff: got %v", report.RFreeDiff)
	}
	if report.RWorkDiffFlagged {
		t.Error("Rwork diff 0.02 must not flag")
	}
}

func TestResidueOutliers(t *testing.T) {
	report := parseSample(t)

	torsion := report.Outliers["torsion-outlier"]
	if len(torsion) != 1 {
		t.Fatalf("torsion: got %d", len(torsion))
	}
	if torsion[0].Residue.ResName != "ALA" || torsion[0].Values["phi"] != "-150.0" {
		t.Errorf("torsion: got %+v", torsion[0])
	}

	if len(report.Outliers["polymer-rsrz-outlier"]) != 1 {
		t.Errorf("polymer rsrz: got %d", len(report.Outliers["polymer-rsrz-outlier"]))
	}
	if len(report.Outliers["ligand-rsrz-outlier"]) != 1 {
		t.Errorf("ligand rsrz: got %d", len(report.Outliers["ligand-rsrz-outlier"]))
	}
}

func TestOutlierFilters(t *testing.T) {
	report := parseSample(t)

	// The C-N link bond and the |Zscore|<=10 Mogul bond are skipped.
	bonds := report.Outliers["bond-outlier"]
	if len(bonds) != 1 || bonds[0].Values["atom0"] != "CA" {
		t.Errorf("bonds: got %+v", bonds)
	}
	if len(report.Outliers["mog-bond-outlier"]) != 0 {
		t.Error("weak mogul bond must be skipped")
	}
	if len(report.Outliers["mog-angle-outlier"]) != 1 {
		t.Error("strong mogul angle must be kept")
	}
}

func TestClashPairs(t *testing.T) {
	report := parseSample(t)

	// cid 1 pairs CB with O1; cid 2 is dropped because its first partner
	// is a hydrogen; cid 3 keeps only the first two of three partners.
	if len(report.ClashPairs) != 2 {
		t.Fatalf("got %d pairs", len(report.ClashPairs))
	}
	seen := make(map[string]string)
	for _, pair := range report.ClashPairs {
		if len(pair) != 2 {
			t.Fatalf("got %d partners", len(pair))
		}
		seen[pair[0].Atom] = pair[1].Atom
	}
	if seen["CB"] != "O1" {
		t.Errorf("cid 1: got %+v", seen)
	}
	if seen["N1"] != "C2" {
		t.Errorf("cid 3: got %+v", seen)
	}
	for first, second := range seen {
		if strings.HasPrefix(first, "H") || strings.HasPrefix(second, "H") {
			t.Errorf("hydrogen contact kept: %s-%s", first, second)
		}
		if second == "C3" {
			t.Error("third partner must not pair")
		}
	}
}

func TestChemicalShiftSummary(t *testing.T) {
	report := parseSample(t)
	cs := report.ChemicalShifts
	if cs == nil {
		t.Fatal("missing chemical shift summary")
	}
	if cs.ErrorCount != 1 || cs.WarningCount != 1 {
		t.Errorf("counts: got %d errors %d warnings", cs.ErrorCount, cs.WarningCount)
	}
	if len(cs.Unmapped) != 2 || len(cs.ResidueNotFound) != 1 {
		t.Errorf("unmapped: got %d, residue-not-found %d", len(cs.Unmapped), len(cs.ResidueNotFound))
	}
	if len(cs.Outliers) != 1 || cs.Outliers[0]["zscore"] != "6.1" {
		t.Errorf("outliers: got %+v", cs.Outliers)
	}
	if len(cs.ReferencingOffsets) != 2 {
		t.Fatalf("offsets: got %d", len(cs.ReferencingOffsets))
	}
	if !cs.ReferencingOffsets[0].Flagged {
		t.Error("offset 1.2 vs uncertainty 0.3 must flag")
	}
	if cs.ReferencingOffsets[1].Flagged {
		t.Error("offset 0.2 vs uncertainty 0.5 must not flag")
	}
}

func TestMappingCountsFromListAttributes(t *testing.T) {
	doc := `<wwPDB-validation-information>
 <Entry pdbid="1abc"/>
 <chemical_shift_list number_of_errors_while_mapping="5" number_of_warnings_while_mapping="2"/>
 <chemical_shift_list number_of_errors_while_mapping="1"/>
</wwPDB-validation-information>`
	report, err := ParseReport(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	cs := report.ChemicalShifts
	if cs == nil {
		t.Fatal("missing chemical shift summary")
	}
	// Counts accumulate from the list attributes even with no unmapped
	// children.
	if cs.ErrorCount != 6 || cs.WarningCount != 2 {
		t.Errorf("counts: got %d errors %d warnings", cs.ErrorCount, cs.WarningCount)
	}
	if len(cs.Unmapped) != 0 {
		t.Errorf("unmapped: got %d", len(cs.Unmapped))
	}
}

func TestParseReportBadXml(t *testing.T) {
	if _, err := ParseReport(context.Background(), strings.NewReader("<unclosed")); err == nil {
		t.Error("expected error")
	}
}
