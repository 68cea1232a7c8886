// Package tracker holds the activity tracking model: challenges, meals,
// workouts and leaderboard standings together with the streak, badge and
// progress bookkeeping derived from them.
//
// A Store is not safe for concurrent use. Callers that mutate it from more
// than one goroutine serialize through a Loop.
package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saadjs/fitquest/internal/model"
)

type PointValues struct {
	Join     int
	Create   int
	Complete int
}

func DefaultPointValues() PointValues {
	return PointValues{Join: 100, Create: 200, Complete: 500}
}

// Options configures a Store. Nil Points and Goals select the defaults; a
// non-nil value is used as is, zeros included.
type Options struct {
	User     string
	Points   *PointValues
	Goals    *NutritionGoals
	Rules    []Rule
	FeedSize int
	Anchors  AnchorStore
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
	NewID    func() string
}

// State is the persistable content of a Store.
type State struct {
	Challenges        []model.Challenge
	Meals             map[model.Weekday][]model.Meal
	Workouts          []model.Workout
	CompletedWorkouts []model.Workout
	Leaderboard       []model.LeaderboardEntry
	Badges            []string
	WaterMl           int
	Feed              []string
	Heatmap           [][]int
}

type Store struct {
	user     string
	points   PointValues
	goals    NutritionGoals
	engine   *Engine
	feedSize int
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	streaks  map[Domain]*StreakTracker

	challenges        []model.Challenge
	meals             map[model.Weekday][]model.Meal
	workouts          []model.Workout
	completedWorkouts []model.Workout
	leaderboard       []model.LeaderboardEntry
	badges            []string
	waterMl           int
	feed              []string
	heatmap           [][]int
}

func New(opts Options, st State) *Store {
	if opts.User == "" {
		opts.User = "You"
	}
	points := DefaultPointValues()
	if opts.Points != nil {
		points = *opts.Points
	}
	goals := DefaultNutritionGoals()
	if opts.Goals != nil {
		goals = *opts.Goals
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules(DefaultThresholds())
	}
	if opts.FeedSize <= 0 {
		opts.FeedSize = 5
	}
	if opts.Notifier == nil {
		opts.Notifier = Notifiers()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}

	s := &Store{
		user:     opts.User,
		points:   points,
		goals:    goals,
		engine:   NewEngine(opts.Rules...),
		feedSize: opts.FeedSize,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		streaks: map[Domain]*StreakTracker{
			DomainChallenges: NewStreakTracker(DomainChallenges, opts.Anchors, opts.Logger),
			DomainNutrition:  NewStreakTracker(DomainNutrition, opts.Anchors, opts.Logger),
		},
	}
	s.load(cloneState(st))
	s.ensureUser()
	return s
}

func (s *Store) load(st State) {
	s.challenges = st.Challenges
	s.meals = st.Meals
	if s.meals == nil {
		s.meals = map[model.Weekday][]model.Meal{}
	}
	s.workouts = st.Workouts
	s.completedWorkouts = st.CompletedWorkouts
	s.leaderboard = st.Leaderboard
	s.badges = st.Badges
	s.waterMl = st.WaterMl
	s.feed = st.Feed
	s.heatmap = st.Heatmap
}

// Restore replaces the store content with a copy of st. Streak anchors are
// read again from the anchor store on next use.
func (s *Store) Restore(st State) {
	s.load(cloneState(st))
	s.ensureUser()
	for _, t := range s.streaks {
		t.reset()
	}
}

// State returns a deep copy of the store content.
func (s *Store) State() State {
	return cloneState(State{
		Challenges:        s.challenges,
		Meals:             s.meals,
		Workouts:          s.workouts,
		CompletedWorkouts: s.completedWorkouts,
		Leaderboard:       s.leaderboard,
		Badges:            s.badges,
		WaterMl:           s.waterMl,
		Feed:              s.feed,
		Heatmap:           s.heatmap,
	})
}

func (s *Store) User() string { return s.user }

func (s *Store) Goals() NutritionGoals { return s.goals }

func (s *Store) ensureUser() {
	if s.userIndex() >= 0 {
		return
	}
	s.leaderboard = append(s.leaderboard, model.LeaderboardEntry{ID: s.newID(), User: s.user})
}

func (s *Store) userIndex() int {
	for i := range s.leaderboard {
		if s.leaderboard[i].User == s.user {
			return i
		}
	}
	return -1
}

func (s *Store) today() time.Time {
	return s.now()
}

// Award adds points to a leaderboard user, creating the entry on first award.
// Points only ever grow.
func (s *Store) Award(user string, points int) error {
	if points < 0 {
		return invalid("points", "must be >= 0")
	}
	if user == "" {
		return invalid("user", "is required")
	}
	for i := range s.leaderboard {
		if s.leaderboard[i].User == user {
			s.leaderboard[i].Points += points
			s.refresh()
			return nil
		}
	}
	s.leaderboard = append(s.leaderboard, model.LeaderboardEntry{ID: s.newID(), User: user, Points: points})
	s.refresh()
	return nil
}

func (s *Store) award(points int) {
	if idx := s.userIndex(); idx >= 0 {
		s.leaderboard[idx].Points += points
	}
}

// PushFeed prepends a live update line, keeping the most recent FeedSize lines.
func (s *Store) PushFeed(line string) {
	s.feed = append([]string{line}, s.feed...)
	if len(s.feed) > s.feedSize {
		s.feed = s.feed[:s.feedSize]
	}
}

func (s *Store) Feed() []string {
	out := make([]string, len(s.feed))
	copy(out, s.feed)
	return out
}

func (s *Store) Heatmap() [][]int {
	return cloneGrid(s.heatmap)
}

func (s *Store) SetHeatmap(grid [][]int) {
	s.heatmap = cloneGrid(grid)
}

func (s *Store) Badges() []string {
	out := make([]string, len(s.badges))
	copy(out, s.badges)
	return out
}

func (s *Store) Streak(d Domain) int {
	t, ok := s.streaks[d]
	if !ok {
		return 0
	}
	return t.Current()
}

func (s *Store) touch(d Domain) int {
	streak := s.streaks[d].Evaluate(s.today())
	if d == DomainChallenges {
		if idx := s.userIndex(); idx >= 0 {
			s.leaderboard[idx].Streak = streak
		}
	}
	return streak
}

// EvaluateStreaks records a session tick for every domain without any other
// mutation and returns the resulting streaks.
func (s *Store) EvaluateStreaks() map[Domain]int {
	out := make(map[Domain]int, len(s.streaks))
	for d := range s.streaks {
		out[d] = s.touch(d)
	}
	s.refresh()
	return out
}

func (s *Store) snapshot() Snapshot {
	points := 0
	if idx := s.userIndex(); idx >= 0 {
		points = s.leaderboard[idx].Points
	}
	return Snapshot{
		Challenges: s.challenges,
		MealCount:  s.mealCount(),
		Points:     points,
		Streaks: map[Domain]int{
			DomainChallenges: s.Streak(DomainChallenges),
			DomainNutrition:  s.Streak(DomainNutrition),
		},
	}
}

// refresh re-runs badge rules after a mutation.
func (s *Store) refresh() []string {
	granted := s.engine.Evaluate(s.snapshot(), s.badges)
	for _, b := range granted {
		s.badges = append(s.badges, b)
		if idx := s.userIndex(); idx >= 0 && !contains(s.leaderboard[idx].Badges, b) {
			s.leaderboard[idx].Badges = append(s.leaderboard[idx].Badges, b)
		}
		s.PushFeed(fmt.Sprintf("You unlocked the %s badge!", b))
		s.log.Info("badge unlocked", zap.String("badge", b), zap.String("user", s.user))
		s.notifier.BadgeUnlocked(b)
	}
	return granted
}

func (s *Store) Leaderboard(q LeaderboardQuery) LeaderboardPage {
	return QueryLeaderboard(s.leaderboard, q)
}

// Users lists leaderboard users in stored order.
func (s *Store) Users() []string {
	out := make([]string, len(s.leaderboard))
	for i, e := range s.leaderboard {
		out[i] = e.User
	}
	return out
}

// Entry returns the leaderboard entry of the given user.
func (s *Store) Entry(user string) (model.LeaderboardEntry, bool) {
	for _, e := range RankEntries(s.leaderboard) {
		if e.User == user {
			return e, true
		}
	}
	return model.LeaderboardEntry{}, false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func cloneState(st State) State {
	out := State{
		Challenges:        cloneChallenges(st.Challenges),
		Meals:             make(map[model.Weekday][]model.Meal, len(st.Meals)),
		Workouts:          append([]model.Workout(nil), st.Workouts...),
		CompletedWorkouts: append([]model.Workout(nil), st.CompletedWorkouts...),
		Leaderboard:       cloneEntries(st.Leaderboard),
		Badges:            append([]string(nil), st.Badges...),
		WaterMl:           st.WaterMl,
		Feed:              append([]string(nil), st.Feed...),
		Heatmap:           cloneGrid(st.Heatmap),
	}
	for day, meals := range st.Meals {
		out.Meals[day] = append([]model.Meal(nil), meals...)
	}
	return out
}

func cloneChallenges(in []model.Challenge) []model.Challenge {
	if in == nil {
		return nil
	}
	out := make([]model.Challenge, len(in))
	for i, c := range in {
		if c.EndDate != nil {
			v := *c.EndDate
			c.EndDate = &v
		}
		if c.CompletedAt != nil {
			v := *c.CompletedAt
			c.CompletedAt = &v
		}
		out[i] = c
	}
	return out
}

func cloneEntries(in []model.LeaderboardEntry) []model.LeaderboardEntry {
	if in == nil {
		return nil
	}
	out := make([]model.LeaderboardEntry, len(in))
	for i, e := range in {
		e.Badges = append([]string(nil), e.Badges...)
		out[i] = e
	}
	return out
}

func cloneGrid(in [][]int) [][]int {
	if in == nil {
		return nil
	}
	out := make([][]int, len(in))
	for i, row := range in {
		out[i] = append([]int(nil), row...)
	}
	return out
}
