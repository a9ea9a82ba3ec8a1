// Command modemctl sends and receives files over an acoustic modem link,
// either through real audio devices or WAV files.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeongseonghan/acoustic-modem/internal/modem"
)

var v = viper.New()

func main() {
	root := &cobra.Command{
		Use:   "modemctl",
		Short: "Send and receive files over an acoustic modem",
	}

	root.PersistentFlags().Int("base", 14, "lowest data carrier DFT bin")
	root.PersistentFlags().Int("step", 2, "bin spacing between carriers")
	root.PersistentFlags().Int("count", 4, "number of parallel carriers")
	root.PersistentFlags().Uint("phase-bits", 2, "phase bits encoded per carrier per symbol")
	root.PersistentFlags().Duration("symbol-duration", 200*time.Millisecond, "symbol tone duration")
	root.PersistentFlags().Duration("pause-duration", 100*time.Millisecond, "inter-symbol silence")
	root.PersistentFlags().Float64("volume", 0.1, "peak output amplitude of the summed carriers")
	root.PersistentFlags().Float64("sample-rate", 44100, "sample rate in Hz")
	root.PersistentFlags().String("config", "", "path to a modemctl config file")

	for _, name := range []string{"base", "step", "count", "phase-bits", "symbol-duration", "pause-duration", "volume", "sample-rate"} {
		if err := v.BindPFlag(name, root.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	v.SetEnvPrefix("MODEMCTL")
	v.AutomaticEnv()

	cobra.OnInitialize(func() {
		if cfgFile, _ := root.PersistentFlags().GetString("config"); cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "modemctl: reading config: %v\n", err)
			}
		}
	})

	root.AddCommand(newSendCmd(), newReceiveCmd(), newDevicesCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// channelPlanFromConfig builds a ChannelPlan from viper's current state
// (flags, env, and config file, in cobra/viper's usual precedence).
func channelPlanFromConfig() modem.ChannelPlan {
	return modem.ChannelPlan{
		Base:           v.GetInt("base"),
		Step:           v.GetInt("step"),
		Count:          v.GetInt("count"),
		PhaseBits:      uint(v.GetUint("phase-bits")),
		AmplitudeBits:  0,
		SymbolDuration: v.GetDuration("symbol-duration"),
		PauseDuration:  v.GetDuration("pause-duration"),
		Volume:         v.GetFloat64("volume"),
	}
}

func sampleRate() float64 {
	return v.GetFloat64("sample-rate")
}
