package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/render"
	"github.com/yourusername/paddock/internal/stable"
)

var stableAll bool

func init() {
	stableCmd.Flags().BoolVar(&stableAll, "all", false, "Include retired horses")
	rootCmd.AddCommand(stableCmd)
}

var stableCmd = &cobra.Command{
	Use:   "stable [NAME]",
	Short: "List the horses in the stable, or show one horse's form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 1 {
			horse, form, err := svc.HorseForm(ctx, args[0])
			if err != nil {
				return err
			}
			render.NewConsole(cmd.OutOrStdout()).Stable([]*models.Horse{horse})
			fmt.Fprintf(cmd.OutOrStdout(), "Recent form: %s\n", formString(form))
			return nil
		}

		var (
			horses []*models.Horse
			err    error
		)
		if stableAll {
			horses, err = store.Horses().List(ctx)
		} else {
			horses, err = store.Horses().ListActive(ctx)
		}
		if err != nil {
			return err
		}
		if len(horses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "The stable is empty; run `paddock seed` first")
			return nil
		}

		render.NewConsole(cmd.OutOrStdout()).Stable(horses)
		fmt.Fprintf(cmd.OutOrStdout(), "%d available of %d\n", len(stable.Available(horses)), len(horses))
		return nil
	},
}

// formString renders positions newest first, e.g. "1-3-2"
func formString(form []int) string {
	if len(form) == 0 {
		return "unraced"
	}
	parts := make([]string, len(form))
	for i, p := range form {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "-")
}

var seedFile string

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML roster file (defaults to the stock five-horse stable)")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty stable",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster := stable.DefaultRoster()
		if seedFile != "" {
			var err error
			if roster, err = stable.LoadRoster(seedFile); err != nil {
				return err
			}
		}

		n, err := svc.SeedStable(cmd.Context(), roster)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Stable already has horses; nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d horses\n", n)
		return nil
	},
}
