// Package seed fills the database with demo users, follows, posts and likes.
// It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"network/internal/middleware"
	"network/internal/models"
	"network/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets unless the plan overrides it.
const DefaultPassword = "password123"

// Account is a hand-written user in a seed plan.
type Account struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Posts    []string `yaml:"posts"`
	Follows  []string `yaml:"follows"`
}

// Options configures a seeding run. Generated users come on top of Accounts.
type Options struct {
	Users           int       `yaml:"users"`
	PostsPerUser    int       `yaml:"posts_per_user"`
	FollowsPerUser  int       `yaml:"follows_per_user"`
	MaxLikesPerPost int       `yaml:"max_likes_per_post"`
	MaxDays         int       `yaml:"max_days"`
	Clean           bool      `yaml:"clean"`
	Password        string    `yaml:"password"`
	RandomSeed      int64     `yaml:"random_seed"`
	Accounts        []Account `yaml:"accounts"`
}

// Result counts what a run created.
type Result struct {
	Users   int
	Posts   int
	Follows int
	Likes   int
}

// LoadPlan reads seeding options from a YAML file.
func LoadPlan(path string) (Options, error) {
	var opts Options
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read seed plan: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse seed plan %s: %w", path, err)
	}
	return opts, nil
}

// Seeder writes seed data through the repositories so the usual invariants hold.
type Seeder struct {
	db      *gorm.DB
	users   repository.UserRepository
	follows repository.FollowRepository
	posts   repository.PostRepository
	faker   *gofakeit.Faker
	opts    Options
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Seeder{
		db:      db,
		users:   repository.NewUserRepository(db),
		follows: repository.NewFollowRepository(db),
		posts:   repository.NewPostRepository(db),
		faker:   gofakeit.New(seed),
		opts:    opts,
	}
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, table := range []string{"post_likers", "follow_edges", "posts", "profiles", "users"} {
		if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds accounts from the plan, then generated users, follows, posts and likes.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	res := &Result{}
	byName := map[string]*models.User{}
	var all []*models.User

	for _, acc := range s.opts.Accounts {
		u, err := s.createUser(ctx, acc.Username, acc.Email, string(hashed))
		if err != nil {
			return nil, err
		}
		byName[u.Username] = u
		all = append(all, u)
	}

	for i := 0; i < s.opts.Users; i++ {
		u, err := s.createGeneratedUser(ctx, string(hashed), byName)
		if err != nil {
			return nil, err
		}
		byName[u.Username] = u
		all = append(all, u)
	}
	res.Users = len(all)

	for _, acc := range s.opts.Accounts {
		follower := byName[acc.Username]
		for _, name := range acc.Follows {
			followee, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("account %s follows unknown user %s", acc.Username, name)
			}
			if err := s.follow(ctx, follower, followee, res); err != nil {
				return nil, err
			}
		}
	}
	if s.opts.FollowsPerUser > 0 && len(all) > 1 {
		for i, follower := range all {
			for _, j := range s.pick(len(all), s.opts.FollowsPerUser+1) {
				if j == i {
					continue
				}
				if err := s.follow(ctx, follower, all[j], res); err != nil {
					return nil, err
				}
			}
		}
	}

	var created []*models.Post
	for _, acc := range s.opts.Accounts {
		author := byName[acc.Username]
		for _, content := range acc.Posts {
			p, err := s.createPost(ctx, author, content)
			if err != nil {
				return nil, err
			}
			created = append(created, p)
		}
	}
	for _, author := range all {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			p, err := s.createPost(ctx, author, s.sentence())
			if err != nil {
				return nil, err
			}
			created = append(created, p)
		}
	}
	res.Posts = len(created)

	if s.opts.MaxLikesPerPost > 0 {
		for _, p := range created {
			n := s.faker.Number(0, s.opts.MaxLikesPerPost)
			for _, j := range s.pick(len(all), n) {
				if _, _, err := s.posts.ToggleLike(ctx, p.ID, all[j].ID); err != nil {
					return nil, fmt.Errorf("like post %d: %w", p.ID, err)
				}
				res.Likes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("follows", res.Follows),
		slog.Int("likes", res.Likes))
	return res, nil
}

func (s *Seeder) createUser(ctx context.Context, username, email, hashed string) (*models.User, error) {
	if email == "" {
		email = strings.ToLower(username) + "@example.com"
	}
	u := &models.User{Username: username, Email: email, Password: hashed}
	if err := s.users.CreateWithProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return u, nil
}

func (s *Seeder) createGeneratedUser(ctx context.Context, hashed string, taken map[string]*models.User) (*models.User, error) {
	for attempt := 0; attempt < 10; attempt++ {
		name := SanitizeUsername(s.faker.Username() + fmt.Sprint(s.faker.Number(10, 9999)))
		if _, dup := taken[name]; dup || name == "" {
			continue
		}
		u, err := s.createUser(ctx, name, s.faker.Email(), hashed)
		if models.HasCode(err, models.CodeConflict) {
			continue
		}
		return u, err
	}
	return nil, fmt.Errorf("could not find a free username after 10 attempts")
}

func (s *Seeder) follow(ctx context.Context, follower, followee *models.User, res *Result) error {
	if follower.ID == followee.ID {
		return nil
	}
	err := s.follows.Create(ctx, follower.ID, followee.ID)
	switch {
	case err == nil:
		res.Follows++
	case models.HasCode(err, models.CodeConflict):
	default:
		return fmt.Errorf("follow %s -> %s: %w", follower.Username, followee.Username, err)
	}
	return nil
}

func (s *Seeder) createPost(ctx context.Context, author *models.User, content string) (*models.Post, error) {
	daysBack := s.faker.Number(0, s.opts.MaxDays-1)
	minutesBack := s.faker.Number(0, 24*60-1)
	p := &models.Post{
		Content:   truncate(content, models.MaxPostContentLength),
		UserID:    &author.ID,
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minutesBack)*time.Minute),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post for %s: %w", author.Username, err)
	}
	return p, nil
}

func (s *Seeder) sentence() string {
	return s.faker.Sentence(s.faker.Number(4, 30))
}

// pick returns up to n distinct indexes in [0, size).
func (s *Seeder) pick(size, n int) []int {
	if n > size {
		n = size
	}
	if n <= 0 {
		return nil
	}
	return s.faker.Rand.Perm(size)[:n]
}

var disallowedUsernameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeUsername turns generated names into handles the registration rules accept.
func SanitizeUsername(name string) string {
	name = disallowedUsernameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "_")
	if len(name) > 30 {
		name = strings.TrimRight(name[:30], "_")
	}
	if len(name) < 3 {
		return ""
	}
	return name
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
