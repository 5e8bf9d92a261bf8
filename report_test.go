package optirocket

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

func TestWriteRequirementSummary(t *testing.T) {
	mission := BuiltinMissionFromName("ISScargo")
	req, err := Earth.ComputeRequirement(mission)
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	WriteRequirementSummary(buf, mission, req)
	expected := `=== Mission Recap ===
Mission for Roscosmos, launching from Baikonur (latitude 45.6°)
The rocket will launch a 32000 kg payload
The targeted orbit is circular at 410 km
The final velocity in orbit is 7662.91 m/s
Due to the 51.6° inclination of the desired orbit, the rocket must be launched at a 62.6° azimuth
This will result in 289.69 m/s velocity gains from the Earth rotation
Atmospheric losses are estimated at 2230.59 m/s
The propulsive Delta V required is 9603.81 m/s
`
	if buf.String() != expected {
		t.Fatalf("unexpected recap:\n%s", buf)
	}

	// An anonymous elliptical mission drops the naming line.
	buf.Reset()
	WriteRequirementSummary(buf, Mission{"", "", 200, 35786, 5.2, 3800, 5.2}, InjectionRequirement{})
	if strings.Contains(buf.String(), "Mission for") {
		t.Fatal("anonymous mission must not be named")
	}
	if !strings.Contains(buf.String(), "The targeted orbit is a 200/35786 km ellipse") {
		t.Fatalf("unexpected recap:\n%s", buf)
	}
}

func polarSearch(t *testing.T, maxStages int) SearchResult {
	mission := BuiltinMissionFromName("POLARsat")
	req, err := Earth.ComputeRequirement(mission)
	if err != nil {
		t.Fatal(err)
	}
	return SearchBestStaging(Earth, DefaultCatalog(), 1, maxStages, req, mission.Payload, MassLimits{}, Tuning{Logger: kitlog.NewNopLogger()})
}

func TestWriteSearchTable(t *testing.T) {
	buf := new(bytes.Buffer)
	WriteSearchTable(buf, polarSearch(t, 2))
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 8 || lines[7] != "" {
		t.Fatalf("expected 7 lines, got:\n%s", buf)
	}
	if !strings.HasPrefix(lines[0], "Total mass (kg)") || !strings.Contains(lines[0], "Stage 2") {
		t.Fatalf("unexpected header %s", lines[0])
	}
	// The single stage sequences do not converge and keep their row.
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[0] != "-" || fields[2] != "RP1" {
		t.Fatalf("unexpected row %s", lines[1])
	}
	if fields := strings.Fields(lines[6]); len(fields) != 5 || fields[0] != "21735.2" || fields[4] != "*" {
		t.Fatalf("unexpected best row %s", lines[6])
	}
	if strings.Count(buf.String(), "*") != 1 {
		t.Fatal("exactly one sequence wins")
	}
}

func TestWriteSearchTableInfeasible(t *testing.T) {
	mission := BuiltinMissionFromName("ISScargo")
	req, err := Earth.ComputeRequirement(mission)
	if err != nil {
		t.Fatal(err)
	}
	var limits MassLimits
	limits.SetMaxTotalMass(1)
	rslt := SearchBestStaging(Earth, DefaultCatalog(), 2, 2, req, mission.Payload, limits, Tuning{Logger: kitlog.NewNopLogger()})
	buf := new(bytes.Buffer)
	WriteSearchTable(buf, rslt)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for _, line := range lines[1:] {
		if fields := strings.Fields(line); fields[0] != "inf" || fields[1] != "inf" {
			t.Fatalf("unexpected row %s", line)
		}
	}
	if strings.Contains(buf.String(), "*") {
		t.Fatal("nothing may win an infeasible search")
	}
}

func TestWriteStagingTable(t *testing.T) {
	staging, err := SolveStaging(Earth, DefaultCatalog(), StageSequence{"SOLID", "LH2"}, issRequiredΔV, 32000, MassLimits{})
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	WriteStagingTable(buf, staging)
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 5 lines, got:\n%s", buf)
	}
	if !strings.HasPrefix(lines[0], "Stage") || !strings.Contains(lines[0], "Struc mass (kg)") {
		t.Fatalf("unexpected header %s", lines[0])
	}
	for i, expected := range [][]string{
		{"1", "SOLID", "260", "3975.7", "1906168.2", "1732880.1", "173288.0"},
		{"2", "LH2", "440", "5628.1", "256150.1", "209959.1", "46191.0"},
	} {
		fields := strings.Fields(lines[1+i])
		if len(fields) != len(expected) {
			t.Fatalf("unexpected row %s", lines[1+i])
		}
		for j := range expected {
			if fields[j] != expected[j] {
				t.Fatalf("row %d field %d is %s, expected %s", i+1, j, fields[j], expected[j])
			}
		}
	}
	if lines[3] != "Payload: 32000 kg" {
		t.Fatalf("unexpected payload line %s", lines[3])
	}
	if lines[4] != "Liftoff mass: 2194318.3 kg for a total ΔV of 9603.8 m/s" {
		t.Fatalf("unexpected liftoff line %s", lines[4])
	}
}

func TestWriteSearchCSV(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteSearchCSV(buf, polarSearch(t, 2)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got:\n%s", buf)
	}
	if !strings.HasPrefix(lines[0], "# Creation date (UTC): ") {
		t.Fatalf("unexpected comment line %s", lines[0])
	}
	if lines[1] != "sequence,total_mass_kg,total_deltav_ms,deltav_stage1_ms,deltav_stage2_ms" {
		t.Fatalf("unexpected header %s", lines[1])
	}
	// Unconverged sequences keep empty numeric fields.
	if lines[2] != "RP1,,,," {
		t.Fatalf("unexpected record %s", lines[2])
	}
	fields := strings.Split(lines[7], ",")
	if fields[0] != "SOLID/LH2" {
		t.Fatalf("unexpected record %s", lines[7])
	}
	mass, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(mass, 21735.213027, 1) {
		t.Fatalf("total mass = %f", mass)
	}
	ΔV, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(ΔV, polarRequiredΔV, 0.01) {
		t.Fatalf("total ΔV = %f", ΔV)
	}
}

func TestWriteSearchCSVInfeasible(t *testing.T) {
	var limits MassLimits
	limits.SetMaxTotalMass(1)
	seq := StageSequence{"RP1", "LH2"}
	staging, err := SolveStaging(Earth, DefaultCatalog(), seq, issRequiredΔV, 32000, limits)
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err = WriteSearchCSV(buf, SearchResult{Results: []SequenceResult{{seq, staging, nil}}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if fields := strings.Split(lines[2], ","); fields[1] != "+Inf" {
		t.Fatalf("unexpected record %s", lines[2])
	}
}
