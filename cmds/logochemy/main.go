// Command logochemy learns token merges over a text and replays learned
// merges onto another text.
package main

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/SAFedorov/logochemy/golib/cmdline"
)

// replaced in tests
var (
	appFs  = afero.NewOsFs()
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func commands() []cmdline.Command {
	return []cmdline.Command{
		{
			Name:     "reduce-pairs",
			Synopsis: "merge the pairs with the highest mutual information",
			Args:     &pairsArgs{},
		},
		{
			Name:     "reduce-ngrams",
			Synopsis: "merge the most frequent sequences of up to max-n tokens",
			Args:     &ngramArgs{},
		},
		{
			Name:     "replay",
			Synopsis: "apply a recorded merge log to a text",
			Args:     &replayArgs{},
		},
	}
}

func main() {
	cmdline.MustDispatch(commands()...)
}
