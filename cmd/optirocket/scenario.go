package main

import (
	"fmt"
	"log"

	optirocket "github.com/Keith-Maxwell/OptiRocket"
	"github.com/spf13/viper"
)

// readMission returns the mission of the scenario, which is either one of
// the builtin missions, a JSON mission file, or inlined in the scenario.
func readMission() optirocket.Mission {
	if name := viper.GetString("mission.builtin"); name != "" {
		return optirocket.BuiltinMissionFromName(name)
	}
	if file := viper.GetString("mission.file"); file != "" {
		mission, err := optirocket.LoadMission(file)
		if err != nil {
			log.Fatalf("mission: %s", err)
		}
		return mission
	}
	mission := optirocket.Mission{
		Client:       viper.GetString("mission.client_name"),
		Launchpad:    viper.GetString("mission.launchpad"),
		PerigeeAlt:   viper.GetFloat64("mission.altitude_perigee"),
		ApogeeAlt:    viper.GetFloat64("mission.altitude_apogee"),
		Inclination:  viper.GetFloat64("mission.inclination"),
		Payload:      viper.GetFloat64("mission.mass_payload"),
		LaunchpadLat: viper.GetFloat64("mission.launchpad_latitude"),
	}
	if err := mission.Validate(); err != nil {
		log.Fatalf("mission: %s", err)
	}
	return mission
}

// readCatalog returns the default catalog extended with the custom
// propellants of the scenario.
func readCatalog() *optirocket.Catalog {
	catalog := optirocket.DefaultCatalog()
	for _, name := range viper.GetStringSlice("catalog.custom") {
		key := fmt.Sprintf("propellant.%s", name)
		if !viper.IsSet(key) {
			log.Fatalf("could not find propellant `%s` in the scenario", name)
		}
		catalog.Register(optirocket.PropellantSpec{
			Name:            name,
			Stages:          viper.GetIntSlice(fmt.Sprintf("%s.stages", key)),
			ISP:             viper.GetFloat64(fmt.Sprintf("%s.isp", key)),
			MeanISP:         viper.GetFloat64(fmt.Sprintf("%s.mean_isp", key)),
			StructuralIndex: viper.GetFloat64(fmt.Sprintf("%s.structural_index", key)),
		})
	}
	return catalog
}

// readLimits returns the mass limits of the scenario. Stages are keyed
// limits.stage1, limits.stage2 and so forth, and need not be contiguous:
// every stage of the search range is probed.
func readLimits(maxStages int) optirocket.MassLimits {
	var limits optirocket.MassLimits
	for stage := 1; stage <= maxStages; stage++ {
		key := fmt.Sprintf("limits.stage%d", stage)
		if !viper.IsSet(key) {
			continue
		}
		limits.SetStageLimit(stage, viper.GetFloat64(key+".min"), viper.GetFloat64(key+".max"))
	}
	if maxTotal := viper.GetFloat64("limits.maxtotal"); maxTotal > 0 {
		limits.SetMaxTotalMass(maxTotal)
	}
	return limits
}

// readStageRange returns the stage count range of the search.
func readStageRange() (minStages, maxStages int) {
	minStages = viper.GetInt("search.minstages")
	maxStages = viper.GetInt("search.maxstages")
	if minStages < 1 || maxStages < minStages {
		log.Fatalf("invalid stage range [%d, %d]", minStages, maxStages)
	}
	return
}
