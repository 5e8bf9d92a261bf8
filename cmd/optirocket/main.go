package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"strings"

	optirocket "github.com/Keith-Maxwell/OptiRocket"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

const (
	defaultScenario = "~~unset~~"
)

var (
	scenario string
	numCPUs  int
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "sizing scenario TOML file")
	flag.IntVar(&numCPUs, "cpus", -1, "number of CPUs to use (set to 0 for max CPUs)")
	flag.BoolVar(&verbose, "verbose", false, "log the outcome of every sequence")
}

func main() {
	// Read the configuration file.
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	availableCPUs := runtime.NumCPU()
	if numCPUs <= 0 || numCPUs > availableCPUs {
		numCPUs = availableCPUs
	}
	runtime.GOMAXPROCS(numCPUs)
	log.Printf("[info] running on %d CPUs\n", numCPUs)

	// Load scenario
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	mission := readMission()
	log.Printf("[conf] mission: %s\n", mission)
	catalog := readCatalog()
	log.Printf("[conf] propellants: %s\n", strings.Join(catalog.Names(), ", "))
	minStages, maxStages := readStageRange()
	log.Printf("[conf] stage range: [%d, %d]\n", minStages, maxStages)
	limits := readLimits(maxStages)

	req, err := optirocket.Earth.ComputeRequirement(mission)
	if err != nil {
		log.Fatalf("requirement: %s", err)
	}
	optirocket.WriteRequirementSummary(os.Stdout, mission, req)

	tuning := optirocket.Tuning{Workers: numCPUs}
	if !verbose {
		tuning.Logger = kitlog.NewNopLogger()
	}
	rslt := optirocket.SearchBestStaging(optirocket.Earth, catalog, minStages, maxStages, req, mission.Payload, limits, tuning)
	optirocket.WriteSearchTable(os.Stdout, rslt)
	if rslt.Best == nil {
		log.Fatal("no feasible staging found, relax the mass limits or widen the stage range")
	}
	optirocket.WriteStagingTable(os.Stdout, rslt.Best.Staging)

	if csvPath := viper.GetString("export.csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			log.Fatalf("export: %s", err)
		}
		if err := optirocket.WriteSearchCSV(f, rslt); err != nil {
			log.Fatalf("export: %s", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("export: %s", err)
		}
		log.Printf("[info] results saved to %s\n", csvPath)
	}
}
