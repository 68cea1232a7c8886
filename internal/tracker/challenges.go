package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/fitquest/internal/model"
)

type ChallengeInput struct {
	Name         string
	Type         model.ChallengeType
	Difficulty   model.Difficulty
	Tier         model.Tier
	TotalTasks   int
	DurationDays int
	Creator      string
}

// ChallengePatch updates only the fields that are set.
type ChallengePatch struct {
	Name       *string
	TotalTasks *int
	EndDate    *time.Time
}

// RewardFor derives the reward label shown on a challenge card.
func RewardFor(tier model.Tier, totalTasks int) string {
	return fmt.Sprintf("%s Badge + %d Points", tier, totalTasks*50)
}

func oneOf[T ~string](field string, v T, allowed []T) error {
	for _, a := range allowed {
		if a == v {
			return nil
		}
	}
	return invalid(field, "%q is not one of %v", v, allowed)
}

func (in ChallengeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if in.TotalTasks <= 0 {
		return invalid("total_tasks", "must be > 0")
	}
	if in.DurationDays < 0 {
		return invalid("duration_days", "must be >= 0")
	}
	if err := oneOf("type", in.Type, model.ChallengeTypes); err != nil {
		return err
	}
	if err := oneOf("difficulty", in.Difficulty, model.Difficulties); err != nil {
		return err
	}
	return oneOf("tier", in.Tier, model.Tiers)
}

// CreateChallenge adds a user-made challenge. It starts active and earns the
// creator the create award.
func (s *Store) CreateChallenge(in ChallengeInput) (model.Challenge, error) {
	if err := in.validate(); err != nil {
		return model.Challenge{}, err
	}
	creator := strings.TrimSpace(in.Creator)
	if creator == "" {
		creator = s.user
	}
	end := s.now().AddDate(0, 0, in.DurationDays)
	c := model.Challenge{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Type:       in.Type,
		Difficulty: in.Difficulty,
		Tier:       in.Tier,
		TotalTasks: in.TotalTasks,
		Status:     model.StatusActive,
		EndDate:    &end,
		Creator:    creator,
		Reward:     RewardFor(in.Tier, in.TotalTasks),
	}
	s.challenges = append(s.challenges, c)
	s.award(s.points.Create)
	s.touch(DomainChallenges)
	s.PushFeed(fmt.Sprintf("%s created %s", creator, c.Name))
	s.refresh()
	return c, nil
}

// AddChallenge inserts a fully specified challenge, as used by seed data and
// imports. No points are awarded.
func (s *Store) AddChallenge(c model.Challenge) (model.Challenge, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Challenge{}, invalid("name", "is required")
	}
	if c.TotalTasks <= 0 {
		return model.Challenge{}, invalid("total_tasks", "must be > 0")
	}
	if c.CompletedTasks < 0 || c.CompletedTasks > c.TotalTasks {
		return model.Challenge{}, invalid("completed_tasks", "must be within 0..%d", c.TotalTasks)
	}
	if c.Status.Rank() < 0 {
		return model.Challenge{}, invalid("status", "%q is unknown", c.Status)
	}
	if c.ID == "" {
		c.ID = s.newID()
	} else if s.challengeIndex(c.ID) >= 0 {
		return model.Challenge{}, invalid("id", "%q already exists", c.ID)
	}
	switch {
	case c.Status == model.StatusCompleted:
		c.CompletedTasks = c.TotalTasks
	case c.CompletedTasks == c.TotalTasks:
		c.Status = model.StatusCompleted
	}
	if c.Reward == "" {
		c.Reward = RewardFor(c.Tier, c.TotalTasks)
	}
	s.challenges = append(s.challenges, c)
	s.refresh()
	return cloneChallenges([]model.Challenge{c})[0], nil
}

func (s *Store) challengeIndex(id string) int {
	for i := range s.challenges {
		if s.challenges[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Challenge(id string) (model.Challenge, error) {
	idx := s.challengeIndex(id)
	if idx < 0 {
		return model.Challenge{}, notFound("challenge", id)
	}
	return cloneChallenges(s.challenges[idx : idx+1])[0], nil
}

// Challenges lists challenges in display order that match f.
func (s *Store) Challenges(f ChallengeFilter) []model.Challenge {
	out := make([]model.Challenge, 0, len(s.challenges))
	for _, c := range cloneChallenges(s.challenges) {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// JoinChallenge activates an available challenge. Joining one that is
// already active or completed changes nothing.
func (s *Store) JoinChallenge(id string) (model.Challenge, error) {
	idx := s.challengeIndex(id)
	if idx < 0 {
		return model.Challenge{}, notFound("challenge", id)
	}
	c := &s.challenges[idx]
	if c.Status != model.StatusAvailable {
		return s.Challenge(id)
	}
	c.Status = model.StatusActive
	s.award(s.points.Join)
	s.touch(DomainChallenges)
	s.PushFeed(fmt.Sprintf("%s joined %s", s.user, c.Name))
	s.refresh()
	return s.Challenge(id)
}

// CompleteTask records one finished task. The last task completes the
// challenge and pays the completion award once.
func (s *Store) CompleteTask(id string) (model.Challenge, error) {
	idx := s.challengeIndex(id)
	if idx < 0 {
		return model.Challenge{}, notFound("challenge", id)
	}
	c := &s.challenges[idx]
	if c.Status == model.StatusCompleted {
		return s.Challenge(id)
	}
	if c.Status == model.StatusAvailable {
		c.Status = model.StatusActive
	}
	if c.CompletedTasks < c.TotalTasks {
		c.CompletedTasks++
	}
	s.touch(DomainChallenges)
	if c.CompletedTasks == c.TotalTasks {
		s.completeChallenge(idx)
	}
	s.refresh()
	return s.Challenge(id)
}

func (s *Store) completeChallenge(idx int) {
	c := &s.challenges[idx]
	if c.Status == model.StatusCompleted {
		return
	}
	now := s.now()
	c.Status = model.StatusCompleted
	c.CompletedAt = &now
	s.award(s.points.Complete)
	if u := s.userIndex(); u >= 0 {
		s.leaderboard[u].CompletedChallenges++
	}
	s.PushFeed(fmt.Sprintf("%s completed %s!", s.user, c.Name))
}

func (s *Store) UpdateChallenge(id string, p ChallengePatch) (model.Challenge, error) {
	idx := s.challengeIndex(id)
	if idx < 0 {
		return model.Challenge{}, notFound("challenge", id)
	}
	c := s.challenges[idx]
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return model.Challenge{}, invalid("name", "is required")
		}
	}
	if p.TotalTasks != nil {
		if *p.TotalTasks <= 0 {
			return model.Challenge{}, invalid("total_tasks", "must be > 0")
		}
		if *p.TotalTasks < c.CompletedTasks {
			return model.Challenge{}, invalid("total_tasks", "must be >= completed tasks (%d)", c.CompletedTasks)
		}
		if c.Status == model.StatusCompleted && *p.TotalTasks != c.TotalTasks {
			return model.Challenge{}, invalid("total_tasks", "challenge is already completed")
		}
	}

	target := &s.challenges[idx]
	if p.Name != nil {
		target.Name = strings.TrimSpace(*p.Name)
	}
	if p.EndDate != nil {
		end := *p.EndDate
		target.EndDate = &end
	}
	if p.TotalTasks != nil {
		target.TotalTasks = *p.TotalTasks
		target.Reward = RewardFor(target.Tier, target.TotalTasks)
		if target.CompletedTasks == target.TotalTasks {
			if target.Status == model.StatusAvailable {
				target.Status = model.StatusActive
			}
			s.completeChallenge(idx)
		}
	}
	s.refresh()
	return s.Challenge(id)
}

// RemoveChallenge deletes a challenge. Unknown ids are ignored.
func (s *Store) RemoveChallenge(id string) bool {
	idx := s.challengeIndex(id)
	if idx < 0 {
		return false
	}
	s.challenges = append(s.challenges[:idx], s.challenges[idx+1:]...)
	return true
}

// ActiveChallenges returns the active partition in display order.
func (s *Store) ActiveChallenges() []model.Challenge {
	return s.Challenges(ChallengeFilter{Status: string(model.StatusActive)})
}
