// Command modemscope renders a live terminal view of the carrier bins a
// modem session is using, for visual debugging of a link in progress. It
// is purely observational — it never participates in encoding or decoding.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeongseonghan/acoustic-modem/internal/audio"
	"github.com/jeongseonghan/acoustic-modem/internal/modem"
)

func main() {
	inWav := flag.String("in-wav", "", "read from a WAV file instead of a live input device")
	sampleRate := flag.Float64("sample-rate", 44100, "sample rate in Hz (ignored when --in-wav is set)")
	base := flag.Int("base", 14, "lowest data carrier DFT bin")
	step := flag.Int("step", 2, "bin spacing between carriers")
	count := flag.Int("count", 4, "number of parallel carriers")
	flag.Parse()

	plan := modem.ChannelPlan{Base: *base, Step: *step, Count: *count, PhaseBits: 2}

	var source interface {
		Read([]float32) (int, error)
	}
	var closer func() error

	if *inWav != "" {
		wf, err := audio.OpenWavFile(*inWav)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		*sampleRate = wf.SampleRate()
		source = wf
		closer = wf.Close
	} else {
		if err := audio.Init(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer audio.Terminate()

		stream := audio.NewStream(*sampleRate)
		if err := stream.OpenInput(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		source = stream
		closer = stream.Close
	}
	defer closer()

	m := newModel(plan, *sampleRate, source)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
