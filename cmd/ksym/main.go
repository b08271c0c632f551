// Command ksym converts a kernel fault log (trap.DumpFaults's JSON
// lines) into a pprof profile, so a crash-heavy test run can be
// visualized with `go tool pprof` instead of read line by line.
package main

import (
	"log/slog"
	"os"

	"github.com/google/pprof/profile"

	"rv39kernel/trap"
)

func main() {
	if len(os.Args) != 3 {
		slog.Error("usage: ksym <fault-log.jsonl> <out.pprof>")
		os.Exit(1)
	}

	in, err := os.Open(os.Args[1])
	if err != nil {
		slog.Error("opening fault log", "err", err)
		os.Exit(1)
	}
	defer in.Close()

	faults, err := trap.LoadFaultLog(in)
	if err != nil {
		slog.Error("parsing fault log", "err", err)
		os.Exit(1)
	}

	prof := buildProfile(faults)

	out, err := os.Create(os.Args[2])
	if err != nil {
		slog.Error("creating output profile", "err", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := prof.Write(out); err != nil {
		slog.Error("writing profile", "err", err)
		os.Exit(1)
	}
	slog.Info("wrote profile", "faults", len(faults), "path", os.Args[2])
}

// buildProfile turns each distinct cause into a pprof Function and each
// distinct sepc into a Location (attributed to the first cause seen
// there), and counts how many faults occurred at each sepc as a sample
// value, so the visualized profile's "hottest" leaves are the faults
// that killed the most tasks.
func buildProfile(faults []trap.FaultRecord) *profile.Profile {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "faults", Unit: "count"}},
	}

	locByAddr := make(map[uint64]*profile.Location)
	fnByCause := make(map[trap.Cause]*profile.Function)
	countByLoc := make(map[uint64]int64)

	var nextID uint64 = 1
	for _, f := range faults {
		fn, ok := fnByCause[f.Cause]
		if !ok {
			fn = &profile.Function{ID: nextID, Name: f.Cause.String()}
			nextID++
			fnByCause[f.Cause] = fn
			prof.Function = append(prof.Function, fn)
		}

		loc, ok := locByAddr[f.Sepc]
		if !ok {
			loc = &profile.Location{
				ID:      nextID,
				Address: f.Sepc,
				Line:    []profile.Line{{Function: fn}},
			}
			nextID++
			locByAddr[f.Sepc] = loc
			prof.Location = append(prof.Location, loc)
		}
		countByLoc[f.Sepc]++
	}

	for addr, loc := range locByAddr {
		prof.Sample = append(prof.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{countByLoc[addr]},
		})
	}
	return prof
}
