package service_test

import (
	"testing"

	"github.com/saadjs/fitquest/internal/service"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetConfig(db, "user", " Alex "); err != nil {
		t.Fatalf("set config: %v", err)
	}
	value, ok, err := service.GetConfig(db, "user")
	if err != nil || !ok || value != "Alex" {
		t.Fatalf("expected Alex, got %q ok=%v err=%v", value, ok, err)
	}
	if _, ok, err := service.GetConfig(db, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := service.SetConfig(db, " ", "x"); err == nil {
		t.Fatalf("expected empty key to fail")
	}

	settings, err := service.UserSettings(db)
	if err != nil {
		t.Fatalf("user settings: %v", err)
	}
	if _, ok := settings[service.ConfigWaterMl]; ok {
		t.Fatalf("internal keys should not be listed as settings: %v", settings)
	}
	if settings["user"] != "Alex" {
		t.Fatalf("expected user setting, got %v", settings)
	}
}

func TestValidateSetting(t *testing.T) {
	t.Parallel()
	cases := []struct {
		key, value string
		ok         bool
	}{
		{"nutrition.calorie_goal", "2200", true},
		{"nutrition.calorie_goal", "-1", false},
		{"points.join", "lots", false},
		{"user", "Sam", true},
		{service.ConfigLastLoggedDate, "2024-01-01", false},
		{"", "x", false},
	}
	for _, tc := range cases {
		err := service.ValidateSetting(tc.key, tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateSetting(%q, %q) = %v, want ok=%v", tc.key, tc.value, err, tc.ok)
		}
	}
}
