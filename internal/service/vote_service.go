package service

import (
	"context"

	"tavern/internal/models"
	"tavern/internal/observability"
	"tavern/internal/repository"
)

// VoteService applies like/dislike toggles.
type VoteService struct {
	voteRepo repository.VoteRepository
	userRepo repository.UserRepository
}

type VoteInput struct {
	UserID    uint
	PostID    uint
	Direction int
}

// VoteResult reports the post's counters and the voter's standing vote after
// the toggle. Post is nil when the post no longer exists.
type VoteResult struct {
	Post   *models.Post `json:"post"`
	MyVote int          `json:"my_vote"`
}

func NewVoteService(voteRepo repository.VoteRepository, userRepo repository.UserRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, userRepo: userRepo}
}

// Vote toggles the user's vote. Repeating a direction clears it, switching
// moves it, and the counters follow atomically. Voting requires a completed
// profile; voting on a vanished post is a quiet no-op.
func (s *VoteService) Vote(ctx context.Context, in VoteInput) (*VoteResult, error) {
	if in.Direction != models.VoteLike && in.Direction != models.VoteDislike {
		return nil, models.NewValidationError("Vote direction must be like or dislike")
	}

	voter, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !voter.HasProfile() {
		return nil, models.NewValidationError("Complete your profile before voting")
	}

	post, next, err := s.voteRepo.Apply(ctx, in.PostID, in.UserID, in.Direction)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return &VoteResult{}, nil
	}

	observability.VotesCast.WithLabelValues(voteDirectionLabel(next)).Inc()
	return &VoteResult{Post: post, MyVote: next}, nil
}

func voteDirectionLabel(value int) string {
	switch value {
	case models.VoteLike:
		return "like"
	case models.VoteDislike:
		return "dislike"
	default:
		return "none"
	}
}
