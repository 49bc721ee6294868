package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/craftcore/internal/data"
	"github.com/udisondev/craftcore/internal/db"
	"github.com/udisondev/craftcore/internal/game/craft"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every recipe against the item and quality catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalogs(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			issues := data.Validate(c)
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) in %d recipe(s)", len(issues), len(c.Recipes.All()))
			}
			fmt.Fprintf(out, "%d recipes OK\n", len(c.Recipes.All()))
			return nil
		},
	}
}

func newResolveCommand(a *app) *cobra.Command {
	var (
		inventoryPath string
		recipeID      string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which recipes can be made from an inventory snapshot",
		Long: `Resolve recipes against a player inventory and nearby items described in YAML.

Without --recipe every recipe is listed with its missing slots.
With --recipe every slot and alternative of that recipe is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalogs(cmd.Context())
			if err != nil {
				return err
			}
			s, err := data.LoadSurroundings(inventoryPath, c.Items)
			if err != nil {
				return fmt.Errorf("loading inventory: %w", err)
			}
			engine := craft.NewEngine(c.Items)

			if recipeID != "" {
				recipe, ok := c.Recipes.Recipe(recipeID)
				if !ok {
					return fmt.Errorf("recipe %q not found", recipeID)
				}
				printResolution(cmd.OutOrStdout(), engine.Resolve(recipe, s.Player, s.Nearby))
				return nil
			}

			results, err := resolveAll(cmd.Context(), engine, c.Recipes.All(), s)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "inventory snapshot YAML")
	cmd.Flags().StringVar(&recipeID, "recipe", "", "show one recipe in detail")
	_ = cmd.MarkFlagRequired("inventory")
	return cmd
}

// resolveAll resolves recipes in parallel. Each resolution is independent
// and only reads the inventories.
func resolveAll(ctx context.Context, engine *craft.Engine, recipes []*craft.Recipe, s *data.Surroundings) ([]*craft.ResolutionResult, error) {
	results := make([]*craft.ResolutionResult, len(recipes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range recipes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = engine.Resolve(r, s.Player, s.Nearby)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newCraftCommand(a *app) *cobra.Command {
	var (
		inventoryPath string
		recipeID      string
		actorID       int64
		prefer        string
	)

	cmd := &cobra.Command{
		Use:   "craft",
		Short: "Consume what a recipe needs from an inventory snapshot",
		Long: `Run a craft against an inventory snapshot and print what would be consumed.

When several sources can serve a slot, --prefer picks the source (map or player).
With the journal enabled in config the craft is recorded in the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var preferred craft.Source
			switch prefer {
			case "map":
				preferred = craft.SourceMap
			case "player":
				preferred = craft.SourcePlayer
			default:
				return fmt.Errorf("--prefer must be map or player, got %q", prefer)
			}

			ctx := cmd.Context()
			c, err := a.catalogs(ctx)
			if err != nil {
				return err
			}
			s, err := data.LoadSurroundings(inventoryPath, c.Items)
			if err != nil {
				return fmt.Errorf("loading inventory: %w", err)
			}

			var journal craft.Journal
			if a.cfg.Journal.Enabled {
				database, err := db.New(ctx, a.cfg.Journal.Database.DSN())
				if err != nil {
					return err
				}
				defer database.Close()
				journal = database.Journal()
			}

			controller := craft.NewController(craft.NewEngine(c.Items), c.Recipes, journal)
			result, err := controller.Craft(ctx, actorID, recipeID, s.Player, s.Nearby, preferSource(preferred))
			if err != nil {
				return err
			}
			printConsumed(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryPath, "inventory", "", "inventory snapshot YAML")
	cmd.Flags().StringVar(&recipeID, "recipe", "", "recipe to craft")
	cmd.Flags().Int64Var(&actorID, "actor", 1, "actor ID recorded in the journal")
	cmd.Flags().StringVar(&prefer, "prefer", "map", "source to take from when several fit (map or player)")
	_ = cmd.MarkFlagRequired("inventory")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

// preferSource picks the first option from the preferred source, falling
// back to the first option overall.
func preferSource(src craft.Source) craft.DisambiguateFunc {
	return func(options []craft.SourceOption) (craft.SourceOption, bool) {
		for _, opt := range options {
			if opt.Source == src {
				return opt, true
			}
		}
		return options[0], true
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply craft journal database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.RunMigrations(cmd.Context(), a.cfg.Journal.Database.DSN()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database migrations applied")
			return nil
		},
	}
}

func newHistoryCommand(a *app) *cobra.Command {
	var (
		actorID int64
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the latest journaled crafts of an actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.Journal.HistoryLimit
			}
			ctx := cmd.Context()
			database, err := db.New(ctx, a.cfg.Journal.Database.DSN())
			if err != nil {
				return err
			}
			defer database.Close()

			records, err := database.Journal().LoadByActor(ctx, actorID, limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().Int64Var(&actorID, "actor", 1, "actor ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "max crafts to show (default from config)")
	return cmd
}

func printSummary(w io.Writer, results []*craft.ResolutionResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPE\tMAKEABLE\tMISSING")
	for _, res := range results {
		missing := make([]string, 0, len(res.Missing()))
		for _, id := range res.Missing() {
			missing = append(missing, id.String())
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", res.RecipeID, res.Makeable(), strings.Join(missing, ","))
	}
	tw.Flush()
}

func printResolution(w io.Writer, res *craft.ResolutionResult) {
	fmt.Fprintf(w, "%s: makeable=%t\n", res.RecipeID, res.Makeable())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tSTATUS\tALT\tREQUIREMENT\tNEED\tHAVE\tFREE\tCHOSEN")
	for _, slots := range [][]craft.SlotResult{res.Tools, res.Components} {
		for _, sr := range slots {
			for ai, alt := range sr.Alternatives {
				chosen := ""
				if ai == sr.Chosen {
					chosen = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%s\n",
					sr.ID, alt.Status, ai, alt.Requirement, alt.Need, alt.Have, alt.Free, chosen)
			}
		}
	}
	tw.Flush()
}

func printConsumed(w io.Writer, result *craft.CraftResult) {
	fmt.Fprintf(w, "crafted %s -> %s x%d\n", result.Recipe.ID, result.Recipe.Result, result.Recipe.ResultMult)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tSOURCE\tITEM\tUNITS\tCHARGES")
	for _, ci := range result.Consumed {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", ci.Slot, ci.Source, ci.Item, ci.Units, ci.Charges)
	}
	tw.Flush()
}

func printHistory(w io.Writer, records []db.JournalRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CRAFTED AT\tRECIPE\tRESULT\tITEMS")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", rec.CraftedAt.Format("2006-01-02 15:04:05"), rec.RecipeID, rec.Result, len(rec.Items))
	}
	tw.Flush()
}
