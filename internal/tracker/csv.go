package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/saadjs/fitquest/internal/model"
)

const MealLogHeader = "Name,Meal Type,Calories,Protein,Carbs,Fat,Dietary,Time,Day,Logged Date"

const mealLogFields = 10

// ExportMealLog renders meals in the fixed meal-log layout: a header line and
// one comma-separated row per meal, without quoting.
func ExportMealLog(meals []model.Meal) string {
	var b strings.Builder
	b.WriteString(MealLogHeader)
	b.WriteString("\n")
	rows := make([]string, 0, len(meals))
	for _, m := range meals {
		rows = append(rows, strings.Join([]string{
			m.Name,
			string(m.MealType),
			strconv.Itoa(m.Calories),
			strconv.Itoa(m.Macros.Protein),
			strconv.Itoa(m.Macros.Carbs),
			strconv.Itoa(m.Macros.Fat),
			string(m.Dietary),
			m.Time,
			string(m.Day),
			m.LoggedDate,
		}, ","))
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

// ParseMealLog reads text produced by ExportMealLog. IDs are not part of the
// format, so parsed meals carry none.
func ParseMealLog(r io.Reader) ([]model.Meal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = mealLogFields
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("meal log is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read meal log header: %w", err)
	}
	if strings.Join(header, ",") != MealLogHeader {
		return nil, fmt.Errorf("unexpected meal log header %q", strings.Join(header, ","))
	}

	meals := make([]model.Meal, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read meal log row %d: %w", line, err)
		}
		m, err := mealFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("meal log row %d: %w", line, err)
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func mealFromRecord(rec []string) (model.Meal, error) {
	ints := make([]int, 4)
	for i, idx := range []int{2, 3, 4, 5} {
		v, err := strconv.Atoi(strings.TrimSpace(rec[idx]))
		if err != nil {
			return model.Meal{}, fmt.Errorf("column %d: invalid number %q", idx+1, rec[idx])
		}
		ints[i] = v
	}
	return model.Meal{
		Name:       rec[0],
		MealType:   model.MealType(rec[1]),
		Calories:   ints[0],
		Macros:     model.Macros{Protein: ints[1], Carbs: ints[2], Fat: ints[3]},
		Dietary:    model.Dietary(rec[6]),
		Time:       rec[7],
		Day:        model.Weekday(rec[8]),
		LoggedDate: rec[9],
	}, nil
}
