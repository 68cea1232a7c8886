// Package openfoodfacts looks up packaged foods so a meal can be logged from
// a barcode or a product name instead of typed-in macros.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

const userAgent = "fitquest/1.0 (+https://github.com/saadjs/fitquest)"

// Product is one food, with nutrients per serving when the database has
// them and per 100 g otherwise.
type Product struct {
	Code     string
	Name     string
	Brand    string
	Serving  string
	Calories int
	Macros   model.Macros
	Dietary  model.Dietary
}

// Meal turns the product into meal input for the tracker.
func (p Product) Meal(mealType model.MealType, day model.Weekday, hhmm string) tracker.MealInput {
	return tracker.MealInput{
		Name:     mealName(p.Name),
		MealType: mealType,
		Calories: p.Calories,
		Macros:   p.Macros,
		Dietary:  p.Dietary,
		Day:      day,
		Time:     hhmm,
	}
}

// mealName drops the characters the meal log cannot store.
func mealName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '"', '\r', '\n':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) base() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, u, what string, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts %s request: %w", what, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts %s request: %w", what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts %s response: %w", what, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts %s request failed with status %d", what, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openfoodfacts %s response: %w", what, err)
	}
	return nil
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("barcode is required")
	}
	var parsed offResponse
	u := fmt.Sprintf("%s/api/v2/product/%s.json", c.base(), url.PathEscape(barcode))
	if err := c.get(ctx, u, "product", &parsed); err != nil {
		return Product{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return Product{}, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}
	p := toProduct(parsed.Product)
	if p.Code == "" {
		p.Code = barcode
	}
	return p, nil
}

// SearchFoods returns up to limit named products matching query.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		c.base(),
		url.QueryEscape(strings.TrimSpace(query)),
		limit,
	)
	var parsed offSearchResponse
	if err := c.get(ctx, u, "search", &parsed); err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toProduct(p))
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no openfoodfacts product found for query %q", query)
	}
	return out, nil
}

func toProduct(p offProduct) Product {
	return Product{
		Code:     strings.TrimSpace(p.Code),
		Name:     strings.TrimSpace(p.ProductName),
		Brand:    strings.TrimSpace(p.Brands),
		Serving:  strings.TrimSpace(p.ServingSize),
		Calories: grams(nutrientValue(p.Nutriments, "energy-kcal")),
		Macros: model.Macros{
			Protein: grams(nutrientValue(p.Nutriments, "proteins")),
			Carbs:   grams(nutrientValue(p.Nutriments, "carbohydrates")),
			Fat:     grams(nutrientValue(p.Nutriments, "fat")),
		},
		Dietary: dietaryFromLabels(p.Labels),
	}
}

func grams(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// dietaryFromLabels picks the most specific tag the tracker knows. Vegan
// wins over vegetarian.
func dietaryFromLabels(labels []string) model.Dietary {
	found := map[string]bool{}
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if i := strings.Index(l, ":"); i >= 0 {
			l = l[i+1:]
		}
		found[l] = true
	}
	switch {
	case found["vegan"]:
		return model.DietaryVegan
	case found["vegetarian"]:
		return model.DietaryVegetarian
	case found["keto"] || found["ketogenic"]:
		return model.DietaryKeto
	case found["gluten-free"] || found["no-gluten"]:
		return model.DietaryGlutenFree
	default:
		return model.DietaryNone
	}
}

func nutrientValue(n map[string]any, base string) float64 {
	for _, key := range []string{base + "_serving", base + "_100g"} {
		if v, ok := parseFloatAny(n[key]); ok {
			return v
		}
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	ServingSize string         `json:"serving_size"`
	Labels      []string       `json:"labels_tags"`
	Nutriments  map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
