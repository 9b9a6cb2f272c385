package main

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

func main() {
	var (
		csvPath string
		zipURL  string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to movies.csv (skip download)")
	flag.StringVar(&zipURL, "url", defaultMovieLensURL, "MovieLens zip URL")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	cleanup := func() {}
	if csvPath == "" {
		path, c, err := downloadAndExtract(zipURL)
		if err != nil {
			slog.Error("failed to download dataset", "error", err)
			os.Exit(1)
		}
		csvPath = path
		cleanup = c
	}
	defer cleanup()

	count, err := importMovies(context.Background(), db, csvPath, limit)
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	slog.Info("import completed", "rows", count)
}

func downloadAndExtract(zipURL string) (string, func(), error) {
	if zipURL == "" {
		return "", func() {}, errors.New("dataset url is empty")
	}

	tmpDir, err := os.MkdirTemp("", "movielens-")
	if err != nil {
		return "", func() {}, err
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	zipPath := filepath.Join(tmpDir, "dataset.zip")
	if err := downloadFile(zipURL, zipPath); err != nil {
		cleanup()
		return "", func() {}, err
	}

	csvPath, err := extractMoviesCSV(zipPath, tmpDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	return csvPath, cleanup, nil
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // nolint: noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func extractMoviesCSV(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, file := range r.File {
		if !strings.HasSuffix(file.Name, "movies.csv") {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()

		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		out, err := os.Create(destPath)
		if err != nil {
			return "", err
		}

		if _, err := io.Copy(out, src); err != nil {
			_ = out.Close()
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}

		return destPath, nil
	}

	return "", errors.New("movies.csv not found in zip")
}

const batchSize = 500

func importMovies(ctx context.Context, db *gorm.DB, csvPath string, limit int) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	idxTitle, idxGenres, err := parseMovieCSVHeader(reader)
	if err != nil {
		return 0, err
	}

	count := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batch := make([]postgres.MovieModel, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "genres", "updated_at"}),
			}).Create(&batch).Error
			batch = batch[:0]
			return err
		}

		seen := map[string]bool{}
		for limit <= 0 || count < limit {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}

			m, ok := parseMovieRecord(record, idxTitle, idxGenres)
			if !ok || seen[m.Slug] {
				continue
			}
			seen[m.Slug] = true

			batch = append(batch, postgres.MovieModel{
				ID:            m.ID,
				Title:         m.Title,
				Slug:          m.Slug,
				YearOfRelease: m.YearOfRelease,
				Genres:        pq.StringArray(m.Genres),
			})
			count++

			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func parseMovieCSVHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}

	idxTitle, idxGenres := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "title":
			idxTitle = i
		case "genres":
			idxGenres = i
		}
	}
	if idxTitle == -1 || idxGenres == -1 {
		return 0, 0, errors.New("missing required columns in csv header")
	}

	return idxTitle, idxGenres, nil
}

// MovieLens titles carry the year as a suffix: "Toy Story (1995)".
var titleYear = regexp.MustCompile(`^(.*\S)\s*\((\d{4})\)\s*$`)

const noGenres = "(no genres listed)"

// parseMovieRecord turns a MovieLens row into a catalog movie. Rows without
// a year or genres are skipped.
func parseMovieRecord(record []string, idxTitle, idxGenres int) (movie.Movie, bool) {
	if idxTitle >= len(record) || idxGenres >= len(record) {
		return movie.Movie{}, false
	}

	match := titleYear.FindStringSubmatch(strings.TrimSpace(record[idxTitle]))
	if match == nil {
		return movie.Movie{}, false
	}
	year, err := strconv.Atoi(match[2])
	if err != nil {
		return movie.Movie{}, false
	}

	var genres []string
	if raw := strings.TrimSpace(record[idxGenres]); raw != noGenres {
		for _, g := range strings.Split(raw, "|") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}

	m := movie.Movie{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(match[1]),
		YearOfRelease: year,
		Genres:        genres,
	}
	if m.Validate() != nil {
		return movie.Movie{}, false
	}
	m.Slug = movie.Slug(m.Title, m.YearOfRelease)
	return m, true
}
