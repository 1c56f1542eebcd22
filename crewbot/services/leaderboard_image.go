package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

//go:embed templates/leaderboard.html
var leaderboardTemplate string

var leaderboardTmpl = template.Must(template.New("leaderboard").Parse(leaderboardTemplate))

type leaderboardRow struct {
	Rank  int
	Label string
	Name  string
	Time  string
}

type leaderboardPage struct {
	Title     string
	Footer    string
	Timestamp string
	Entries   []leaderboardRow
}

// LeaderboardImageService renders the leaderboard into a PNG with a
// headless browser.
type LeaderboardImageService struct {
	logger *slog.Logger
	footer string
}

func NewLeaderboardImageService(footer string) *LeaderboardImageService {
	if footer == "" {
		footer = config.DefaultFooter
	}
	return &LeaderboardImageService{
		logger: slog.With(slog.String("service", "leaderboard_image")),
		footer: footer,
	}
}

// RenderHTML builds the page that is screenshotted.
func (s *LeaderboardImageService) RenderHTML(entries []crew.LeaderboardEntry, at time.Time) (string, error) {
	page := leaderboardPage{
		Title:     "Shift Time Leaderboard",
		Footer:    s.footer,
		Timestamp: at.UTC().Format("02 Jan 2006 15:04 MST"),
	}
	for _, e := range entries {
		page.Entries = append(page.Entries, leaderboardRow{
			Rank:  e.Rank,
			Label: utils.RankLabel(e.Rank),
			Name:  e.DisplayName,
			Time:  utils.FormatMinutes(e.Minutes),
		})
	}

	var buf bytes.Buffer
	if err := leaderboardTmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (s *LeaderboardImageService) GenerateLeaderboardImage(ctx context.Context, entries []crew.LeaderboardEntry, at time.Time) ([]byte, error) {
	start := time.Now()

	html, err := s.RenderHTML(entries, at)
	if err != nil {
		return nil, err
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, config.ImageRenderTimeout)
	defer cancel()

	var image []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+url.PathEscape(html)),
		chromedp.WaitVisible("#leaderboard-container", chromedp.ByID),
		chromedp.Screenshot("#leaderboard-container", &image, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate image with chromedp",
			slog.Any("error", err),
			slog.Duration("took", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Debug("Leaderboard image generated",
		slog.Int("entries", len(entries)),
		slog.Int("image_size", len(image)),
		slog.Duration("took", time.Since(start)))
	return image, nil
}
