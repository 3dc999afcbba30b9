package app

import (
	"context"
	"errors"

	"quizhub-service/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ScoreEntry is one row of the player scoreboard.
type ScoreEntry struct {
	ID    int64
	Name  string
	Score int
}

// DesignerProfile is the public view of a designer.
type DesignerProfile struct {
	FirstName               string
	LastName                string
	Email                   string
	DesignedCount           int
	CorrectAnsweredCount    int
	NotCorrectAnsweredCount int
	IsFollowing             bool
}

// PlayerProfile is the public view of a player.
type PlayerProfile struct {
	FirstName             string
	LastName              string
	Email                 string
	Score                 int
	CorrectAnswerCount    int
	NotCorrectAnswerCount int
	IsFollowing           bool
}

// SocialService covers following, the scoreboard and profile views.
type SocialService struct {
	users     UserRepository
	follows   FollowRepository
	questions QuestionRepository
	answers   AnswerRepository
}

func NewSocialService(store Store) *SocialService {
	return &SocialService{users: store, follows: store, questions: store, answers: store}
}

// Follow makes the calling player follow targetID.
func (s *SocialService) Follow(ctx context.Context, caller domain.User, targetID int64) error {
	if err := RequireRole(caller, domain.RolePlayer); err != nil {
		return err
	}
	if err := NotEmpty(targetID, domain.LabelUserID); err != nil {
		return err
	}
	if caller.ID == targetID {
		return domain.Validation(domain.MsgSelfFollow)
	}
	if _, err := s.users.UserByID(ctx, targetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		return domain.Internal(err)
	}

	following, err := s.follows.IsFollowing(ctx, caller.ID, targetID)
	if err != nil {
		return domain.Internal(err)
	}
	if following {
		return domain.Conflict(domain.MsgAlreadyFollowing)
	}

	err = s.follows.Follow(ctx, caller.ID, targetID)
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.Conflict(domain.MsgAlreadyFollowing)
	}
	if err != nil {
		return domain.Internal(err)
	}
	return nil
}

// Unfollow removes the caller's follow edge to targetID.
func (s *SocialService) Unfollow(ctx context.Context, caller domain.User, targetID int64) error {
	if err := NotEmpty(targetID, domain.LabelUserID); err != nil {
		return err
	}
	if caller.ID == targetID {
		return domain.Validation(domain.MsgSelfUnfollow)
	}

	following, err := s.follows.IsFollowing(ctx, caller.ID, targetID)
	if err != nil {
		return domain.Internal(err)
	}
	if !following {
		return domain.NotFound(domain.MsgNotFollowing)
	}

	err = s.follows.Unfollow(ctx, caller.ID, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(domain.MsgNotFollowing)
	}
	if err != nil {
		return domain.Internal(err)
	}
	return nil
}

// Scoreboard lists all players by descending score.
func (s *SocialService) Scoreboard(ctx context.Context, caller domain.User) ([]ScoreEntry, error) {
	if err := RequireRole(caller, domain.RolePlayer); err != nil {
		return nil, err
	}
	players, err := s.users.ListPlayersByScore(ctx)
	if err != nil {
		return nil, domain.Internal(err)
	}
	entries := make([]ScoreEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, ScoreEntry{ID: p.ID, Name: p.FullName(), Score: p.Score})
	}
	return entries, nil
}

// DesignerView returns a designer's profile with answer statistics over the
// questions they authored.
func (s *SocialService) DesignerView(ctx context.Context, caller domain.User, designerID int64) (DesignerProfile, error) {
	if err := NotEmpty(designerID, domain.LabelDesignerID); err != nil {
		return DesignerProfile{}, err
	}
	designer, err := s.userWithRole(ctx, designerID, domain.RoleDesigner, domain.MsgDesignerNotFound)
	if err != nil {
		return DesignerProfile{}, err
	}

	var (
		stats     []domain.QuestionStats
		following bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.questions.ListDesignedQuestionStats(gctx, designerID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.follows.IsFollowing(gctx, caller.ID, designerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return DesignerProfile{}, domain.Internal(err)
	}

	profile := DesignerProfile{
		FirstName:     designer.FirstName,
		LastName:      designer.LastName,
		Email:         designer.Email,
		DesignedCount: len(stats),
		IsFollowing:   following,
	}
	for _, st := range stats {
		profile.CorrectAnsweredCount += st.Correct
		profile.NotCorrectAnsweredCount += st.NotCorrect
	}
	return profile, nil
}

// PlayerView returns a player's profile with their answer counts.
func (s *SocialService) PlayerView(ctx context.Context, caller domain.User, playerID int64) (PlayerProfile, error) {
	if err := NotEmpty(playerID, domain.LabelPlayerID); err != nil {
		return PlayerProfile{}, err
	}
	player, err := s.userWithRole(ctx, playerID, domain.RolePlayer, domain.MsgPlayerNotFound)
	if err != nil {
		return PlayerProfile{}, err
	}

	var (
		counts    domain.AnswerCounts
		following bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.answers.PlayerAnswerCounts(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.follows.IsFollowing(gctx, caller.ID, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return PlayerProfile{}, domain.Internal(err)
	}

	return PlayerProfile{
		FirstName:             player.FirstName,
		LastName:              player.LastName,
		Email:                 player.Email,
		Score:                 player.Score,
		CorrectAnswerCount:    counts.Correct,
		NotCorrectAnswerCount: counts.NotCorrect,
		IsFollowing:           following,
	}, nil
}

func (s *SocialService) userWithRole(ctx context.Context, id int64, role domain.Role, notFound string) (domain.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && user.Role != role) {
		return domain.User{}, domain.NotFound(notFound)
	}
	if err != nil {
		return domain.User{}, domain.Internal(err)
	}
	return user, nil
}
