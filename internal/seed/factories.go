// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"meetback/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	user := &models.User{
		Handle:       strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		DisplayName:  gofakeit.Name(),
		Description:  gofakeit.Sentence(8),
		Avatar:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		PasswordHash: string(hashedPassword),
		AuthProvider: models.AuthProviderEmail,
		Role:         models.RoleUser,
		TrustScore:   1,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample top-level post with a
// realistic created_at spread over the last maxDays days.
func (f *Factory) CreatePost(author *models.User, maxDays int, overrides ...func(*models.Post)) (*models.Post, error) {
	if maxDays <= 0 {
		maxDays = 90
	}

	post := &models.Post{
		AuthorID: author.ID,
		Content:  truncate(gofakeit.Sentence(f.rnd.Intn(20)+3), models.MaxPostContentLen),
	}
	post.CreatedAt = time.Now().
		Add(-time.Duration(f.rnd.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rnd.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rnd.Intn(60)) * time.Minute)

	if f.rnd.Intn(4) == 0 {
		post.Media = models.MediaList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateRating persists a rating with random scores over a random subset of
// the valid aspects.
func (f *Factory) CreateRating(from, to *models.User) (*models.Rating, error) {
	aspects := models.AspectScores{}
	for _, aspect := range models.ValidRatingAspects {
		if f.rnd.Intn(2) == 0 {
			aspects[aspect] = f.rnd.Intn(models.MaxAspectScore) + 1
		}
	}
	if len(aspects) == 0 {
		aspects[models.ValidRatingAspects[0]] = f.rnd.Intn(models.MaxAspectScore) + 1
	}

	rating := &models.Rating{
		FromUserID: from.ID,
		ToUserID:   to.ID,
		Aspects:    aspects,
		Comment:    truncate(gofakeit.Sentence(6), models.MaxRatingCommentLen),
		Weight:     1,
		Visibility: true,
	}
	if err := f.db.Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
