package optirocket

import (
	"bytes"
	"embed"
	"fmt"
	"math"

	"github.com/spf13/viper"
)

//go:embed missions/*.json
var builtinMissions embed.FS

// Mission defines the payload and the target orbit to size a launcher for.
type Mission struct {
	Client       string  // customer of the mission, informative only
	Launchpad    string  // name of the launch location, informative only
	PerigeeAlt   float64 // altitude of the perigee at injection, in km
	ApogeeAlt    float64 // altitude of the apogee at injection, in km
	Inclination  float64 // inclination of the target orbit, in degrees
	Payload      float64 // payload mass, in kg
	LaunchpadLat float64 // latitude of the launchpad, in degrees
}

// String implements the Stringer interface.
func (m Mission) String() string {
	return fmt.Sprintf("%s: %.0fx%.0f km at %.1f° (%.0f kg from %s)", m.Client, m.PerigeeAlt, m.ApogeeAlt, m.Inclination, m.Payload, m.Launchpad)
}

// Validate checks the physical consistency of the mission definition.
func (m Mission) Validate() error {
	if m.Payload <= 0 {
		return fmt.Errorf("payload mass must be positive (got %g kg)", m.Payload)
	}
	if math.Abs(m.LaunchpadLat) > 90 {
		return fmt.Errorf("launchpad latitude must be within [-90, 90] (got %g°)", m.LaunchpadLat)
	}
	if m.PerigeeAlt < 0 || m.PerigeeAlt > m.ApogeeAlt {
		return fmt.Errorf("injection orbit must verify 0 <= perigee <= apogee (got %g x %g km)", m.PerigeeAlt, m.ApogeeAlt)
	}
	return nil
}

// requiredMissionKeys lists the keys which must be set in a mission file.
var requiredMissionKeys = []string{"altitude_perigee", "altitude_apogee", "inclination", "mass_payload", "launchpad_latitude"}

func missionFromViper(v *viper.Viper) (Mission, error) {
	for _, key := range requiredMissionKeys {
		if !v.IsSet(key) {
			return Mission{}, fmt.Errorf("%s is necessary but is not defined", key)
		}
	}
	m := Mission{
		Client:       v.GetString("client_name"),
		Launchpad:    v.GetString("launchpad"),
		PerigeeAlt:   v.GetFloat64("altitude_perigee"),
		ApogeeAlt:    v.GetFloat64("altitude_apogee"),
		Inclination:  v.GetFloat64("inclination"),
		Payload:      v.GetFloat64("mass_payload"),
		LaunchpadLat: v.GetFloat64("launchpad_latitude"),
	}
	return m, m.Validate()
}

// LoadMission loads a mission definition from the provided JSON file.
func LoadMission(path string) (Mission, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Mission{}, err
	}
	return missionFromViper(v)
}

// BuiltinMissionFromName returns one of the reference missions shipped
// with this package: ISScargo, POLARsat, GEOsat, LEOsat or SSOsat. It
// panics on any other name.
func BuiltinMissionFromName(name string) Mission {
	data, err := builtinMissions.ReadFile(fmt.Sprintf("missions/%s.json", name))
	if err != nil {
		panic(fmt.Errorf("unknown mission `%s`", name))
	}
	v := viper.New()
	v.SetConfigType("json")
	if err = v.ReadConfig(bytes.NewReader(data)); err != nil {
		panic(err)
	}
	m, err := missionFromViper(v)
	if err != nil {
		panic(err)
	}
	return m
}
