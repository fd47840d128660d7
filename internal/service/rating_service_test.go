package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetback/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ratingRepoStub is a stub for repository.RatingRepository.
type ratingRepoStub struct {
	createFn               func(context.Context, *models.Rating) error
	replaceFn              func(context.Context, uint, *models.Rating) error
	getByIDFn              func(context.Context, uint) (*models.Rating, error)
	getByPairFn            func(context.Context, uint, uint) (*models.Rating, error)
	getReceivedFn          func(context.Context, uint) ([]models.Rating, error)
	getReceivedWithRaterFn func(context.Context, uint, int, int) ([]models.Rating, error)
	getGivenFn             func(context.Context, uint, int, int) ([]models.Rating, error)
	deleteFn               func(context.Context, uint) (bool, error)
}

func (s *ratingRepoStub) Create(ctx context.Context, r *models.Rating) error {
	return s.createFn(ctx, r)
}
func (s *ratingRepoStub) Replace(ctx context.Context, prevID uint, r *models.Rating) error {
	return s.replaceFn(ctx, prevID, r)
}
func (s *ratingRepoStub) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ratingRepoStub) GetByPair(ctx context.Context, from, to uint) (*models.Rating, error) {
	return s.getByPairFn(ctx, from, to)
}
func (s *ratingRepoStub) GetReceived(ctx context.Context, to uint) ([]models.Rating, error) {
	return s.getReceivedFn(ctx, to)
}
func (s *ratingRepoStub) GetReceivedWithRater(ctx context.Context, to uint, limit, offset int) ([]models.Rating, error) {
	return s.getReceivedWithRaterFn(ctx, to, limit, offset)
}
func (s *ratingRepoStub) GetGiven(ctx context.Context, from uint, limit, offset int) ([]models.Rating, error) {
	return s.getGivenFn(ctx, from, limit, offset)
}
func (s *ratingRepoStub) Delete(ctx context.Context, id uint) (bool, error) {
	return s.deleteFn(ctx, id)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		createFn:    func(context.Context, *models.Rating) error { return nil },
		replaceFn:   func(context.Context, uint, *models.Rating) error { return nil },
		getByIDFn:   func(context.Context, uint) (*models.Rating, error) { return &models.Rating{}, nil },
		getByPairFn: func(context.Context, uint, uint) (*models.Rating, error) { return nil, nil },
		getReceivedFn: func(context.Context, uint) ([]models.Rating, error) {
			return nil, nil
		},
		getReceivedWithRaterFn: func(context.Context, uint, int, int) ([]models.Rating, error) {
			return nil, nil
		},
		getGivenFn: func(context.Context, uint, int, int) ([]models.Rating, error) { return nil, nil },
		deleteFn:   func(context.Context, uint) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn      func(context.Context, *models.User) error
	getByIDFn     func(context.Context, uint) (*models.User, error)
	getByEmailFn  func(context.Context, string) (*models.User, error)
	getByHandleFn func(context.Context, string) (*models.User, error)
	updateFn      func(context.Context, *models.User) error
	listFn        func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getByHandleFn(ctx, handle)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser}, nil
		},
		getByEmailFn:  func(context.Context, string) (*models.User, error) { return nil, nil },
		getByHandleFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		updateFn:      func(context.Context, *models.User) error { return nil },
		listFn:        func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

func validAspects() models.AspectScores {
	return models.AspectScores{"sincerity": 4, "kindness": 5}
}

func TestRatingService_CreateRejectsSelfRating(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopUserRepo())

	_, err := svc.Create(context.Background(), 7, CreateRatingInput{
		ToUserID: 7,
		Aspects:  validAspects(),
	})

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, models.CodeSelfRating, appErr.Code)
}

func TestRatingService_CreateValidatesAspects(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopUserRepo())

	cases := []struct {
		name    string
		aspects models.AspectScores
		code    string
	}{
		{"empty", models.AspectScores{}, models.CodeMissingData},
		{"unknown aspect", models.AspectScores{"charisma": 3}, models.CodeInvalidAspects},
		{"score too low", models.AspectScores{"sincerity": 0}, models.CodeInvalidAspects},
		{"score too high", models.AspectScores{"sincerity": 6}, models.CodeInvalidAspects},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, CreateRatingInput{
				ToUserID: 2,
				Aspects:  tc.aspects,
			})
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestRatingService_CreateWithinCooldown(t *testing.T) {
	repo := noopRatingRepo()
	repo.getByPairFn = func(context.Context, uint, uint) (*models.Rating, error) {
		return &models.Rating{ID: 9, CreatedAt: time.Now().Add(-time.Hour)}, nil
	}
	repo.createFn = func(context.Context, *models.Rating) error {
		t.Fatal("create must not be called within the cooldown window")
		return nil
	}
	svc := NewRatingService(repo, noopUserRepo())

	_, err := svc.Create(context.Background(), 1, CreateRatingInput{
		ToUserID: 2,
		Aspects:  validAspects(),
	})

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 429, appErr.Status)
	assert.Equal(t, models.CodeRateLimited, appErr.Code)
}

func TestRatingService_CreateReplacesAfterCooldown(t *testing.T) {
	replaced := false
	repo := noopRatingRepo()
	repo.getByPairFn = func(context.Context, uint, uint) (*models.Rating, error) {
		return &models.Rating{ID: 9, CreatedAt: time.Now().Add(-models.RatingCooldownPeriod - time.Hour)}, nil
	}
	repo.replaceFn = func(_ context.Context, prevID uint, r *models.Rating) error {
		replaced = true
		assert.EqualValues(t, 9, prevID)
		return nil
	}
	repo.createFn = func(context.Context, *models.Rating) error {
		t.Fatal("expired pairs must be replaced, not created")
		return nil
	}
	svc := NewRatingService(repo, noopUserRepo())

	rating, err := svc.Create(context.Background(), 1, CreateRatingInput{
		ToUserID: 2,
		Aspects:  validAspects(),
		Comment:  "better this time",
	})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, 1.0, rating.Weight)
	assert.True(t, rating.Visibility)
}

func TestRatingService_AggregatesRoundingAndNulls(t *testing.T) {
	repo := noopRatingRepo()
	repo.getReceivedFn = func(context.Context, uint) ([]models.Rating, error) {
		return []models.Rating{
			{Aspects: models.AspectScores{"sincerity": 5, "kindness": 3}},
			{Aspects: models.AspectScores{"sincerity": 4}},
			{Aspects: models.AspectScores{"sincerity": 1}},
		}, nil
	}
	svc := NewRatingService(repo, noopUserRepo())

	avgs, err := svc.Aggregates(context.Background(), 2)
	require.NoError(t, err)

	require.NotNil(t, avgs["sincerity"])
	assert.InDelta(t, 3.33, *avgs["sincerity"], 0.0001)

	require.NotNil(t, avgs["kindness"])
	assert.Equal(t, 3.0, *avgs["kindness"])

	// Un-scored aspects report null, not zero
	for _, aspect := range []string{"punctuality", "respect", "communication"} {
		val, present := avgs[aspect]
		assert.True(t, present, aspect)
		assert.Nil(t, val, aspect)
	}
}

func TestRatingService_AggregatesNoRatings(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), noopUserRepo())

	avgs, err := svc.Aggregates(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, avgs, len(models.ValidRatingAspects))
	for aspect, val := range avgs {
		assert.Nil(t, val, aspect)
	}
}

func TestRatingService_DeleteMissing(t *testing.T) {
	repo := noopRatingRepo()
	repo.deleteFn = func(context.Context, uint) (bool, error) { return false, nil }
	svc := NewRatingService(repo, noopUserRepo())

	err := svc.Delete(context.Background(), 42)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
