// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"meetback/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: a social mesh of users, a
// follow graph, posts with replies and likes, and peer ratings.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	// Follow mesh: everyone follows a handful of others
	followEdges := 0
	for _, u := range users {
		for i := 0; i < rnd.Intn(6)+2 && len(users) > 1; i++ {
			target := users[rnd.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			err := db.Exec(
				"INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (follower_id, following_id) DO NOTHING",
				u.ID, target.ID).Error
			if err != nil {
				return fmt.Errorf("failed to create follows: %w", err)
			}
			followEdges++
		}
	}
	log.Printf("%d follow edges created", followEdges)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rnd.Intn(len(users))]
		post, err := f.CreatePost(author, 90)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)

		// Occasional reply thread off the new post
		if rnd.Intn(3) == 0 && len(posts) > 1 {
			parent := posts[rnd.Intn(len(posts)-1)]
			root := parent.ID
			if parent.ThreadRootID != nil {
				root = *parent.ThreadRootID
			}
			replier := users[rnd.Intn(len(users))]
			reply, err := f.CreatePost(replier, 30, func(p *models.Post) {
				p.ReplyToID = &parent.ID
				p.ThreadRootID = &root
			})
			if err != nil {
				return fmt.Errorf("failed to create replies: %w", err)
			}
			if err := db.Model(&models.Post{}).Where("id = ?", parent.ID).
				UpdateColumn("replies_count", gorm.Expr("replies_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to bump reply counter: %w", err)
			}
			posts = append(posts, reply)
		}
	}
	log.Printf("%d posts created", len(posts))

	// Likes
	likes := 0
	for _, post := range posts {
		for i := 0; i < rnd.Intn(5); i++ {
			liker := users[rnd.Intn(len(users))]
			res := db.Exec(
				"INSERT INTO post_likes (user_id, post_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (user_id, post_id) DO NOTHING",
				liker.ID, post.ID)
			if res.Error != nil {
				return fmt.Errorf("failed to create likes: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				if err := db.Model(&models.Post{}).Where("id = ?", post.ID).
					UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
					return fmt.Errorf("failed to bump like counter: %w", err)
				}
				likes++
			}
		}
	}
	log.Printf("%d likes created", likes)

	// Ratings between mutual pairs
	ratings := 0
	for _, u := range users {
		for i := 0; i < rnd.Intn(4); i++ {
			target := users[rnd.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			var count int64
			db.Model(&models.Rating{}).
				Where("from_user_id = ? AND to_user_id = ?", u.ID, target.ID).
				Count(&count)
			if count > 0 {
				continue
			}
			if _, err := f.CreateRating(u, target); err != nil {
				return fmt.Errorf("failed to create ratings: %w", err)
			}
			ratings++
		}
	}
	log.Printf("%d ratings created", ratings)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE ratings, post_likes, posts, follows, log_entries, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
