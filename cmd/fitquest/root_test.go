package fitquest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 11, 9, 30, 0, 0, time.Local)

type cli struct {
	t      *testing.T
	db     string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	prev := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = prev })
	dir := t.TempDir()
	return &cli{t: t, db: filepath.Join(dir, "fitquest.db"), config: filepath.Join(dir, "config.yaml")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--db", c.db, "--config", c.config}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(buf.String(), "challenge") {
		t.Fatalf("expected help to list commands, got %s", buf.String())
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	c := newCLI(t)
	first := c.mustRun("init")
	if !strings.Contains(first, "Loaded starter") {
		t.Fatalf("expected seed message on first init, got %q", first)
	}
	second := c.mustRun("init")
	if strings.Contains(second, "Loaded starter") {
		t.Fatalf("expected no reseed on second init, got %q", second)
	}
}

func TestChallengeFlow(t *testing.T) {
	c := newCLI(t)
	c.mustRun("init")

	out := c.mustRun("challenge", "join", "2")
	if !strings.Contains(out, "Joined Marathon Endurance (status active)") {
		t.Fatalf("unexpected join output %q", out)
	}
	c.mustRun("challenge", "complete", "2")

	out = c.mustRun("challenge", "show", "2")
	if !strings.Contains(out, "Progress: 1/42") {
		t.Fatalf("expected one task done, got %q", out)
	}

	out = c.mustRun("leaderboard", "--search", "You")
	if !strings.Contains(out, "You\t900\t3\t1") {
		t.Fatalf("expected 900 points and a 1-day streak, got %q", out)
	}

	if _, err := c.run("challenge", "join", "missing"); err == nil {
		t.Fatalf("expected error joining unknown challenge")
	}
}

func TestChallengeCreateValidation(t *testing.T) {
	c := newCLI(t)
	if _, err := c.run("challenge", "create", "--name", "Plank", "--tasks", "5", "--tier", "Diamond"); err == nil {
		t.Fatalf("expected invalid tier to fail")
	}
	out := c.mustRun("challenge", "create", "--name", "Plank", "--tasks", "5", "--tier", "Silver", "--type", "Endurance", "--difficulty", "Easy")
	if !strings.Contains(out, "Silver Badge + 250 Points") {
		t.Fatalf("unexpected create output %q", out)
	}
	out = c.mustRun("challenge", "list", "--status", "active", "--search", "plank")
	if !strings.Contains(out, "Plank\tEndurance\tEasy\tSilver\t0/5\tactive") {
		t.Fatalf("expected created challenge in list, got %q", out)
	}
}

func TestMealExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("meal", "add", "--name", "Oats", "--type", "Breakfast", "--calories", "300",
		"--protein", "10", "--carbs", "50", "--fat", "5", "--day", "Monday", "--time", "08:00")
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "Added" {
		t.Fatalf("unexpected add output %q", out)
	}
	id := fields[2]

	csvPath := filepath.Join(t.TempDir(), "meals.csv")
	c.mustRun("meal", "export", "--out", csvPath)
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Oats,Breakfast,300,10,50,5,None,08:00,Monday,2024-03-11") {
		t.Fatalf("unexpected export %q", data)
	}

	other := newCLI(t)
	out = other.mustRun("meal", "import", csvPath)
	if !strings.Contains(out, "Imported 1 meal(s)") {
		t.Fatalf("unexpected import output %q", out)
	}
	out = other.mustRun("meal", "list", "--day", "Monday")
	if !strings.Contains(out, "Oats") {
		t.Fatalf("expected imported meal, got %q", out)
	}

	c.mustRun("meal", "remove", id)
	out = c.mustRun("meal", "list", "--day", "Monday")
	if strings.Contains(out, "Oats") {
		t.Fatalf("expected meal removed, got %q", out)
	}
}

func TestWaterAndWorkouts(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("water", "add", "500")
	if !strings.Contains(out, "Water: 500/2000 ml (25%)") {
		t.Fatalf("unexpected water output %q", out)
	}
	if _, err := c.run("water", "add", "-5"); err == nil {
		t.Fatalf("expected negative water to fail")
	}

	out = c.mustRun("workout", "complete", "1")
	if !strings.Contains(out, "Completed Leg Day on 2024-03-11") {
		t.Fatalf("unexpected complete output %q", out)
	}
	out = c.mustRun("workout", "history", "--date", "2024-03-11")
	if !strings.Contains(out, "Leg Day") {
		t.Fatalf("expected Leg Day in history, got %q", out)
	}
	out = c.mustRun("workout", "list")
	if !strings.Contains(out, "Completed 1/4 (25%)") {
		t.Fatalf("unexpected progress %q", out)
	}
}

func TestConfigOverridesApply(t *testing.T) {
	c := newCLI(t)
	c.mustRun("config", "set", "points.join", "250")
	if out := c.mustRun("config", "get", "points.join"); strings.TrimSpace(out) != "250" {
		t.Fatalf("expected stored override, got %q", out)
	}
	if _, err := c.run("config", "set", "lastLoggedDate", "2024-01-01"); err == nil {
		t.Fatalf("expected internal key to be rejected")
	}
	if _, err := c.run("config", "set", "points.join", "-1"); err == nil {
		t.Fatalf("expected negative points to be rejected")
	}

	c.mustRun("challenge", "join", "2")
	out := c.mustRun("leaderboard", "--search", "You")
	if !strings.Contains(out, "You\t1050") {
		t.Fatalf("expected join override to apply, got %q", out)
	}
}

func TestStreakCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("streak")
	if !strings.Contains(out, "Challenge streak: 1 day(s)") || !strings.Contains(out, "Logging streak: 1 day(s)") {
		t.Fatalf("unexpected streak output %q", out)
	}
	now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	out = c.mustRun("streak")
	if !strings.Contains(out, "Challenge streak: 2 day(s)") {
		t.Fatalf("expected streak to grow next day, got %q", out)
	}
}

func TestMealLookupAddsMeal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 1, "product": {"code": "42", "product_name": "Skyr", "labels_tags": ["en:vegetarian"],
  "nutriments": {"energy-kcal_serving": 90, "proteins_serving": 15, "carbohydrates_serving": 6, "fat_serving": 0.4}}}`))
	}))
	defer ts.Close()

	c := newCLI(t)
	c.mustRun("config", "set", "lookup.base_url", ts.URL)
	out := c.mustRun("meal", "lookup", "--barcode", "42", "--add", "--day", "Friday", "--time", "15:00")
	if !strings.Contains(out, "Skyr") || !strings.Contains(out, "Added meal") {
		t.Fatalf("unexpected lookup output %q", out)
	}
	out = c.mustRun("meal", "list", "--day", "Friday")
	if !strings.Contains(out, "Skyr\t90\t15\t6\t0\tVegetarian") {
		t.Fatalf("expected looked-up meal, got %q", out)
	}
}

func TestSimulateSavesFeed(t *testing.T) {
	c := newCLI(t)
	c.mustRun("config", "set", "simulate.feed_interval", "10ms")
	out := c.mustRun("simulate", "--duration", "200ms", "--seed", "7")
	if !strings.Contains(out, "[feed]") || !strings.Contains(out, "Simulation finished") {
		t.Fatalf("unexpected simulate output %q", out)
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("version"); !strings.HasPrefix(out, "fitquest dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}
