package probe

import (
	"github.com/backdrop-cli/backdrop/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Static is an Environment with fixed readings. Absent options mean the reading is unavailable.
type Static struct {
	Width     mo.Option[float64]
	Density   mo.Option[float64]
	DataSaver bool
	ECT       mo.Option[string]
	Mbps      mo.Option[float64]
}

func (s Static) ViewportWidth() mo.Option[float64] { return s.Width }
func (s Static) PixelDensity() mo.Option[float64]  { return s.Density }
func (s Static) SaveData() bool                     { return s.DataSaver }
func (s Static) EffectiveType() mo.Option[string]  { return s.ECT }
func (s Static) Downlink() mo.Option[float64]      { return s.Mbps }

// Config reads the probe.* configuration keys used by the kiosk host.
// Zero and empty values are treated as unavailable readings.
func Config() Static {
	return Static{
		Width:     nonZero(viper.GetFloat64(key.ProbeViewportWidth)),
		Density:   nonZero(viper.GetFloat64(key.ProbePixelDensity)),
		DataSaver: viper.GetBool(key.ProbeSaveData),
		ECT:       mo.EmptyableToOption(viper.GetString(key.ProbeEffectiveType)),
		Mbps:      nonZero(viper.GetFloat64(key.ProbeDownlink)),
	}
}

func nonZero(v float64) mo.Option[float64] {
	if v == 0 {
		return mo.None[float64]()
	}
	return mo.Some(v)
}
