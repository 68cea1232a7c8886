package fitquest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/provider/openfoodfacts"
	"github.com/saadjs/fitquest/internal/tracker"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Plan and log meals for the week",
}

var (
	mealName     string
	mealType     string
	mealCalories int
	mealProtein  int
	mealCarbs    int
	mealFat      int
	mealDietary  string
	mealDay      string
	mealTime     string
	mealDate     string

	mealListDay      string
	mealListType     string
	mealListDietary  string
	mealListCalories string
	mealListTime     string
	mealListSearch   string

	mealMoveIndex int
	mealOut       string

	lookupBarcode string
	lookupQuery   string
	lookupLimit   int
	lookupAdd     bool
	lookupType    string
	lookupDay     string
	lookupTime    string

	suggestDietary string
	suggestDay     string
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag("date", mealDate)
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *tracker.Store) error {
			m, err := s.AddMeal(tracker.MealInput{
				Name:       mealName,
				MealType:   model.MealType(mealType),
				Calories:   mealCalories,
				Macros:     model.Macros{Protein: mealProtein, Carbs: mealCarbs, Fat: mealFat},
				Dietary:    model.Dietary(mealDietary),
				Day:        model.Weekday(mealDay),
				Time:       mealTime,
				LoggedDate: date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %s on %s at %s\n", m.ID, m.Day, m.Time)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := tracker.MealFilter{
			MealType: mealListType,
			Dietary:  mealListDietary,
			Calories: mealListCalories,
			Time:     mealListTime,
			Search:   mealListSearch,
		}
		days := model.Weekdays
		if mealListDay != "" {
			days = []model.Weekday{model.Weekday(mealListDay)}
		}
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ID\tDAY\tTIME\tTYPE\tNAME\tKCAL\tP\tC\tF\tDIETARY")
			for _, day := range days {
				for _, m := range s.Meals(day, f) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n", m.ID, m.Day, m.Time, m.MealType, m.Name, m.Calories, m.Macros.Protein, m.Macros.Carbs, m.Macros.Fat, m.Dietary)
				}
			}
			return nil
		})
	},
}

var mealRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			if s.RemoveMeal(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed meal %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No meal %s\n", args[0])
			}
			return nil
		})
	},
}

var mealMoveCmd = &cobra.Command{
	Use:   "move <id> <day>",
	Short: "Move a meal to another day or position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			m, err := s.MoveMeal(args[0], model.Weekday(args[1]), mealMoveIndex)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", m.Name, m.Day)
			return nil
		})
	},
}

var mealExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the meal log as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			data := s.ExportLog()
			if strings.TrimSpace(mealOut) == "" {
				fmt.Fprint(cmd.OutOrStdout(), data)
				return nil
			}
			if err := os.WriteFile(mealOut, []byte(data), 0o644); err != nil {
				return fmt.Errorf("write meal log: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported meal log to %s\n", mealOut)
			return nil
		})
	},
}

var mealImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import meals from a meal-log CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open meal log: %w", err)
		}
		defer f.Close()
		meals, err := tracker.ParseMealLog(f)
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *tracker.Store) error {
			added, err := s.ImportMeals(meals)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d meal(s)\n", len(added))
			return nil
		})
	},
}

var mealSuggestCmd = &cobra.Command{
	Use:   "suggest [recipe-id]",
	Short: "List recipe suggestions, or log one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tKCAL\tP\tC\tF\tDIETARY")
			for _, r := range tracker.Recipes(suggestDietary) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n", r.ID, r.Name, r.MealType, r.Calories, r.Macros.Protein, r.Macros.Carbs, r.Macros.Fat, r.Dietary)
			}
			return nil
		}
		return withSession(cmd, func(s *tracker.Store) error {
			m, err := s.AddSuggestion(args[0], model.Weekday(suggestDay))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s at %s\n", m.Name, m.Day, m.Time)
			return nil
		})
	},
}

func lookupClient(e *env) *openfoodfacts.Client {
	return &openfoodfacts.Client{
		BaseURL:    e.Config.Lookup.BaseURL,
		HTTPClient: &http.Client{Timeout: e.Config.Lookup.Timeout},
	}
}

var mealLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Find a packaged food on Open Food Facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (lookupBarcode == "") == (lookupQuery == "") {
			return fmt.Errorf("set exactly one of --barcode or --query")
		}
		return withEnv(cmd, func(e *env) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := lookupClient(e)
			var products []openfoodfacts.Product
			if lookupBarcode != "" {
				p, err := client.LookupBarcode(ctx, lookupBarcode)
				if err != nil {
					return err
				}
				products = []openfoodfacts.Product{p}
			} else {
				found, err := client.SearchFoods(ctx, lookupQuery, lookupLimit)
				if err != nil {
					return err
				}
				products = found
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "CODE\tNAME\tBRAND\tKCAL\tP\tC\tF\tDIETARY")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n", p.Code, p.Name, p.Brand, p.Calories, p.Macros.Protein, p.Macros.Carbs, p.Macros.Fat, p.Dietary)
			}
			if !lookupAdd {
				return nil
			}

			sess, err := openSession(cmd, e)
			if err != nil {
				return err
			}
			in := products[0].Meal(model.MealType(lookupType), model.Weekday(lookupDay), lookupTime)
			m, err := sess.Store.AddMeal(in)
			if err != nil {
				return err
			}
			if err := sess.Commit(); err != nil {
				return err
			}
			fmt.Fprintf(w, "Added meal %s (%s) on %s\n", m.ID, m.Name, m.Day)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealRemoveCmd, mealMoveCmd, mealExportCmd, mealImportCmd, mealSuggestCmd, mealLookupCmd)

	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().StringVar(&mealType, "type", string(model.MealLunch), "Breakfast, Lunch, Dinner or Snack")
	mealAddCmd.Flags().IntVar(&mealCalories, "calories", 0, "Calories")
	mealAddCmd.Flags().IntVar(&mealProtein, "protein", 0, "Protein grams")
	mealAddCmd.Flags().IntVar(&mealCarbs, "carbs", 0, "Carb grams")
	mealAddCmd.Flags().IntVar(&mealFat, "fat", 0, "Fat grams")
	mealAddCmd.Flags().StringVar(&mealDietary, "dietary", string(model.DietaryNone), "None, Vegetarian, Vegan, Keto or Gluten-Free")
	mealAddCmd.Flags().StringVar(&mealDay, "day", "", "Day of the week (default today)")
	mealAddCmd.Flags().StringVar(&mealTime, "time", "12:00", "Time HH:MM")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Logged date YYYY-MM-DD (default today)")
	_ = mealAddCmd.MarkFlagRequired("name")

	mealListCmd.Flags().StringVar(&mealListDay, "day", "", "Only this day")
	mealListCmd.Flags().StringVar(&mealListType, "type", tracker.All, "Filter by meal type")
	mealListCmd.Flags().StringVar(&mealListDietary, "dietary", tracker.All, "Filter by dietary tag")
	mealListCmd.Flags().StringVar(&mealListCalories, "calories", tracker.All, "Low, Medium or High")
	mealListCmd.Flags().StringVar(&mealListTime, "time", tracker.All, "Morning, Afternoon or Evening")
	mealListCmd.Flags().StringVar(&mealListSearch, "search", "", "Filter by name")

	mealMoveCmd.Flags().IntVar(&mealMoveIndex, "index", 0, "Position within the target day")

	mealExportCmd.Flags().StringVar(&mealOut, "out", "", "Write to file instead of stdout")

	mealSuggestCmd.Flags().StringVar(&suggestDietary, "dietary", tracker.All, "Filter suggestions by dietary tag")
	mealSuggestCmd.Flags().StringVar(&suggestDay, "day", "", "Day to log the recipe on (default today)")

	mealLookupCmd.Flags().StringVar(&lookupBarcode, "barcode", "", "Product barcode")
	mealLookupCmd.Flags().StringVar(&lookupQuery, "query", "", "Product name search")
	mealLookupCmd.Flags().IntVar(&lookupLimit, "limit", 5, "Max search results")
	mealLookupCmd.Flags().BoolVar(&lookupAdd, "add", false, "Log the first result as a meal")
	mealLookupCmd.Flags().StringVar(&lookupType, "type", string(model.MealSnack), "Meal type when adding")
	mealLookupCmd.Flags().StringVar(&lookupDay, "day", "", "Day when adding (default today)")
	mealLookupCmd.Flags().StringVar(&lookupTime, "time", "12:00", "Time HH:MM when adding")
}
