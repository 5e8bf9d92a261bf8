package optirocket

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// WriteRequirementSummary writes a plain text recap of the mission and of
// its propulsive requirement.
func WriteRequirementSummary(w io.Writer, m Mission, req InjectionRequirement) {
	orbit := fmt.Sprintf("a %g/%g km ellipse", m.PerigeeAlt, m.ApogeeAlt)
	if m.PerigeeAlt == m.ApogeeAlt {
		orbit = fmt.Sprintf("circular at %g km", m.PerigeeAlt)
	}
	fmt.Fprintf(w, "=== Mission Recap ===\n")
	if m.Client != "" {
		fmt.Fprintf(w, "Mission for %s", m.Client)
		if m.Launchpad != "" {
			fmt.Fprintf(w, ", launching from %s (latitude %g°)", m.Launchpad, m.LaunchpadLat)
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "The rocket will launch a %g kg payload\n", m.Payload)
	fmt.Fprintf(w, "The targeted orbit is %s\n", orbit)
	fmt.Fprintf(w, "The final velocity in orbit is %.2f m/s\n", req.FinalVelocity)
	fmt.Fprintf(w, "Due to the %g° inclination of the desired orbit, the rocket must be launched at a %.1f° azimuth\n", m.Inclination, req.Azimuth)
	fmt.Fprintf(w, "This will result in %.2f m/s velocity gains from the Earth rotation\n", req.AssistVelocity)
	fmt.Fprintf(w, "Atmospheric losses are estimated at %.2f m/s\n", req.Losses)
	fmt.Fprintf(w, "The propulsive Delta V required is %.2f m/s\n", req.RequiredΔV)
}

func maxSequenceLength(results []SequenceResult) int {
	maxStages := 0
	for _, r := range results {
		if len(r.Sequence) > maxStages {
			maxStages = len(r.Sequence)
		}
	}
	return maxStages
}

// WriteSearchTable writes one row per sequence of the search: the total
// mass, the total ΔV and the propellant of each stage. The best sequence
// is marked with an asterisk.
func WriteSearchTable(w io.Writer, rslt SearchResult) {
	maxStages := maxSequenceLength(rslt.Results)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total mass (kg)\tDelta V (m/s)")
	for i := 1; i <= maxStages; i++ {
		fmt.Fprintf(tw, "\tStage %d", i)
	}
	fmt.Fprintf(tw, "\t\n")
	for i := range rslt.Results {
		r := rslt.Results[i]
		var mass, ΔV string
		switch {
		case r.Err != nil:
			mass, ΔV = "-", "-"
		case !r.Staging.Feasible():
			mass, ΔV = "inf", "inf"
		default:
			mass = strconv.FormatFloat(r.Staging.TotalMass(), 'f', 1, 64)
			ΔV = strconv.FormatFloat(r.Staging.TotalΔV(), 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s", mass, ΔV)
		for j := 0; j < maxStages; j++ {
			if j < len(r.Sequence) {
				fmt.Fprintf(tw, "\t%s", r.Sequence[j])
			} else {
				fmt.Fprintf(tw, "\t")
			}
		}
		if rslt.Best == &rslt.Results[i] {
			fmt.Fprintf(tw, "\t*\n")
		} else {
			fmt.Fprintf(tw, "\t\n")
		}
	}
	tw.Flush()
}

// WriteStagingTable writes the detailed mass breakdown of a sized vehicle.
func WriteStagingTable(w io.Writer, staging Staging) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tPropellant\tISP (s)\tDelta V (m/s)\tStage mass (kg)\tFuel mass (kg)\tStruc mass (kg)\t\n")
	for i := range staging.Sequence {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t\n", i+1, staging.Sequence[i], staging.ISP[i], staging.ΔV[i], staging.StageMass[i], staging.FuelMass[i], staging.StrucMass[i])
	}
	tw.Flush()
	fmt.Fprintf(w, "Payload: %g kg\n", staging.Payload())
	fmt.Fprintf(w, "Liftoff mass: %.1f kg for a total ΔV of %.1f m/s\n", staging.TotalMass(), staging.TotalΔV())
}

// WriteSearchCSV writes every sequence outcome of the search as CSV
// records, infeasible sequences included. Sequences which failed to
// converge carry empty numeric fields.
func WriteSearchCSV(w io.Writer, rslt SearchResult) error {
	if _, err := fmt.Fprintf(w, "# Creation date (UTC): %s\n", time.Now().UTC()); err != nil {
		return err
	}
	maxStages := maxSequenceLength(rslt.Results)
	cw := csv.NewWriter(w)
	header := []string{"sequence", "total_mass_kg", "total_deltav_ms"}
	for i := 1; i <= maxStages; i++ {
		header = append(header, fmt.Sprintf("deltav_stage%d_ms", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rslt.Results {
		record := make([]string, len(header))
		record[0] = r.Sequence.String()
		if r.Err == nil {
			record[1] = strconv.FormatFloat(r.Staging.TotalMass(), 'f', 6, 64)
			record[2] = strconv.FormatFloat(r.Staging.TotalΔV(), 'f', 6, 64)
			for i := range r.Sequence {
				record[3+i] = strconv.FormatFloat(r.Staging.ΔV[i], 'f', 6, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
