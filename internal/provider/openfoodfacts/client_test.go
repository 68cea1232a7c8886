package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saadjs/fitquest/internal/model"
)

func TestLookupBarcodeBuildsMealInput(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/12345678.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "code": "12345678",
    "product_name": "Oat Bar, \"Choco\"",
    "brands": "Brand Co",
    "serving_size": "40 g",
    "labels_tags": ["en:vegetarian", "en:vegan"],
    "nutriments": {
      "energy-kcal_serving": 182.4,
      "proteins_serving": 4.6,
      "carbohydrates_serving": "25.2",
      "fat_100g": 17
    }
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	p, err := c.LookupBarcode(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if p.Calories != 182 || p.Macros != (model.Macros{Protein: 5, Carbs: 25, Fat: 17}) {
		t.Fatalf("unexpected nutrients: %+v", p)
	}
	if p.Dietary != model.DietaryVegan {
		t.Fatalf("expected Vegan, got %s", p.Dietary)
	}

	in := p.Meal(model.MealSnack, model.Friday, "15:00")
	if in.Name != "Oat Bar Choco" {
		t.Fatalf("unexpected meal name %q", in.Name)
	}
	if in.Day != model.Friday || in.Time != "15:00" || in.MealType != model.MealSnack {
		t.Fatalf("unexpected meal input: %+v", in)
	}
}

func TestLookupBarcodeNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.LookupBarcode(context.Background(), "000"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestSearchFoodsSkipsUnnamedProducts(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "greek yogurt" {
			t.Errorf("unexpected search terms %q", got)
		}
		_, _ = w.Write([]byte(`{"products": [
  {"product_name": ""},
  {"product_name": "Greek Yogurt", "labels_tags": ["en:gluten-free"], "nutriments": {"energy-kcal_100g": 97}}
]}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	got, err := c.SearchFoods(context.Background(), "greek yogurt", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Greek Yogurt" || got[0].Calories != 97 || got[0].Dietary != model.DietaryGlutenFree {
		t.Fatalf("unexpected results: %+v", got)
	}
}
