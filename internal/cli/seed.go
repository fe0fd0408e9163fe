package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
	"github.com/matzehuels/uniquepfp/pkg/seed"
)

// seedCommand creates the seed command, which explains what a username maps to
// without rendering any pixels.
func (c *CLI) seedCommand() *cobra.Command {
	var rngName string

	cmd := &cobra.Command{
		Use:   "seed <username>",
		Short: "Show the seed and palettes derived from a username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rngName == "" {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				rngName = cfg.RNG
			}
			factory, err := rng.Lookup(rngName)
			if err != nil {
				return err
			}
			return runSeed(args[0], rngName, factory)
		},
	}

	cmd.Flags().StringVar(&rngName, "rng", "", "random source (default: rng from config)")
	return cmd
}

func runSeed(username, rngName string, factory rng.Factory) error {
	s := seed.FromString(username)

	fmt.Println(StyleTitle.Render(displayName(username)))
	printKeyValue("seed", StyleNumber.Render(strconv.Itoa(int(s))))
	printKeyValue("rng", rngName)
	fmt.Println()

	for _, mode := range render.Modes {
		d, err := render.Describe(mode, 100, 100, factory(s))
		if err != nil {
			return err
		}
		printInfo("%s", StyleHighlight.Render(mode.String()))
		printKeyValue("  palette", swatches(d.Palette))
		if mode.IsVoronoi() {
			printKeyValue("  points", strconv.Itoa(len(d.Points)))
		}
	}
	return nil
}
