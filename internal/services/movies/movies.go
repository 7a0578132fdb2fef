package movies

import (
	"cinevault/proj/internal/domain/filters"
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/storage"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type MoviesStorage interface {
	Get(ctx context.Context, id string) (*models.Movie, error)
	ListByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error)
	List(ctx context.Context, f filters.Filters) ([]models.Movie, error)
	ListReleasedBetween(ctx context.Context, from, to time.Time, f filters.Filters) ([]models.Movie, error)
	ListFree(ctx context.Context, limit int) ([]models.Movie, error)
	IncrementLikes(ctx context.Context, id string) (int64, error)
}

type UsersReader interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
}

type Presigner interface {
	PresignMedia(ctx context.Context, key string) (string, error)
}

const (
	HomeFetchLimit  = 20
	HomeReturnLimit = 8

	genreAllLimit   = 40
	genreLimit      = 20
	rankedLimit     = 20
	defaultLimit    = 50
	newReleaseSpanM = 3
)

// HomeSection is one row of the landing page.
type HomeSection struct {
	Genre string
	Key   string
}

var HomeSections = []HomeSection{
	{"Action", "actionMovies"},
	{"Comedy", "comedyMovies"},
	{"Romantic", "loveMovies"},
	{"Biography", "biographyMovies"},
	{"Horror", "horrorMovies"},
	{"Mystery", "mysteryMovies"},
}

var yearRx = regexp.MustCompile(`^\d{4}$`)

// MovieDetails is a catalog record plus a download link when the caller may watch it.
type MovieDetails struct {
	*models.Movie
	PresignedURL string `json:"presigned_url,omitempty"`
}

type MovieService struct {
	log       *slog.Logger
	storage   MoviesStorage
	users     UsersReader
	presigner Presigner
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

func New(log *slog.Logger, storage MoviesStorage, users UsersReader, presigner Presigner) *MovieService {
	return &MovieService{
		log:       log,
		storage:   storage,
		users:     users,
		presigner: presigner,
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// ByGenre reads up to fetchLimit movies of genre and returns a random selection of returnLimit of them.
func (s *MovieService) ByGenre(ctx context.Context, genre string, fetchLimit, returnLimit int) ([]models.Movie, error) {
	const op = "movies.MovieService.ByGenre"
	log := s.log.With("op", op, "genre", genre)
	movies, err := s.storage.ListByGenre(ctx, genre, fetchLimit)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	s.shuffle(len(movies), func(i, j int) { movies[i], movies[j] = movies[j], movies[i] })
	if len(movies) > returnLimit {
		movies = movies[:returnLimit]
	}
	return orEmpty(movies), nil
}

// Home fetches every landing page section concurrently, keyed by HomeSection.Key.
func (s *MovieService) Home(ctx context.Context) (map[string][]models.Movie, error) {
	results := make([][]models.Movie, len(HomeSections))
	g, gctx := errgroup.WithContext(ctx)
	for i, section := range HomeSections {
		g.Go(func() error {
			movies, err := s.ByGenre(gctx, section.Genre, HomeFetchLimit, HomeReturnLimit)
			if err != nil {
				return err
			}
			results[i] = movies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	home := make(map[string][]models.Movie, len(HomeSections))
	for i, section := range HomeSections {
		home[section.Key] = results[i]
	}
	return home, nil
}

// Get loads a movie and, if it has media the caller may watch, a presigned link to it.
func (s *MovieService) Get(ctx context.Context, id string, email string) (*MovieDetails, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	details := &MovieDetails{Movie: movie}
	if !movie.HasMedia() {
		return details, nil
	}
	allowed := movie.Price.IsFree()
	if !allowed {
		allowed, err = s.hasActiveRental(ctx, email, id)
		if err != nil {
			log.Error(err.Error())
			return nil, err
		}
	}
	if !allowed {
		return details, nil
	}
	url, err := s.presigner.PresignMedia(ctx, movie.MediaKey)
	if err != nil {
		log.Error("failed to presign media", "err", err)
		return nil, err
	}
	details.PresignedURL = url
	return details, nil
}

func (s *MovieService) hasActiveRental(ctx context.Context, email, movieID string) (bool, error) {
	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.HasActiveRental(movieID, s.now()), nil
}

func (s *MovieService) Like(ctx context.Context, id string) (int64, error) {
	const op = "movies.MovieService.Like"
	log := s.log.With("op", op, "id", id)
	likes, err := s.storage.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return 0, ErrMovieNotFound
		}
		log.Error(err.Error())
		return 0, err
	}
	return likes, nil
}

// Search returns the id of the first movie whose title contains title, ignoring case.
func (s *MovieService) Search(ctx context.Context, title string) (string, error) {
	const op = "movies.MovieService.Search"
	log := s.log.With("op", op, "title", title)
	movies, err := s.storage.List(ctx, filters.Filters{})
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	needle := strings.ToLower(title)
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			return m.ID, nil
		}
	}
	log.Info("no movie matched")
	return "", ErrMovieNotFound
}

func (s *MovieService) Filter(ctx context.Context, kind filters.Kind, value string) ([]models.Movie, error) {
	const op = "movies.MovieService.Filter"
	log := s.log.With("op", op, "type", kind.String(), "value", value)
	movies, err := s.filter(ctx, kind, value)
	if err != nil {
		if !errors.Is(err, ErrInvalidYear) {
			log.Error(err.Error())
		}
		return nil, err
	}
	return orEmpty(movies), nil
}

func (s *MovieService) filter(ctx context.Context, kind filters.Kind, value string) ([]models.Movie, error) {
	sorted := func(sort string, limit int) filters.Filters {
		return filters.Filters{Limit: limit, Sort: sort, SortSafelist: filters.MovieSortSafelist}
	}
	switch kind {
	case filters.KindGenre:
		if value == "All" {
			return s.storage.List(ctx, filters.Filters{Limit: genreAllLimit})
		}
		return s.storage.ListByGenre(ctx, value, genreLimit)
	case filters.KindTopIMDb:
		return s.storage.List(ctx, sorted("-rating", rankedLimit))
	case filters.KindMostLiked:
		return s.storage.List(ctx, sorted("-likes", rankedLimit))
	case filters.KindNewRelease:
		from := s.now().UTC().AddDate(0, -newReleaseSpanM, 0)
		return s.storage.ListReleasedBetween(ctx, from, time.Time{}, sorted("-release_date", defaultLimit))
	case filters.KindYear:
		if !yearRx.MatchString(value) {
			return nil, ErrInvalidYear
		}
		year, _ := strconv.Atoi(value)
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		return s.storage.ListReleasedBetween(ctx, from, to, sorted("-release_date", defaultLimit))
	case filters.KindFree:
		return s.storage.ListFree(ctx, defaultLimit)
	default:
		return s.storage.List(ctx, filters.Filters{Limit: defaultLimit})
	}
}

func orEmpty(movies []models.Movie) []models.Movie {
	if movies == nil {
		return []models.Movie{}
	}
	return movies
}
