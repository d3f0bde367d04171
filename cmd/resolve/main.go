// Command resolve runs post titles through the title parser and the catalog
// matcher against the live Spotify API and prints each resolution.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"hot100/internal/config"
	"hot100/internal/matching"
	"hot100/internal/models"
	"hot100/internal/normalize"
	"hot100/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	spotify, err := cfg.RequirePlatform("spotify")
	if err != nil {
		slog.Error("Cannot resolve titles", "error", err)
		os.Exit(1)
	}

	titles := os.Args[1:]
	if len(titles) == 0 {
		fmt.Fprintln(os.Stderr, `usage: resolve "Artist - Song [genre]" ...`)
		os.Exit(2)
	}

	matcher := matching.NewMatcher(services.NewSpotifyService(spotify.ClientID, spotify.ClientSecret), cfg.CallTimeout)
	ctx := context.Background()

	for i, title := range titles {
		post := models.ParsedPost{
			Post:      models.Post{ID: fmt.Sprintf("cli%d", i+1), Title: title},
			PostTitle: normalize.ParseTitle(title),
		}

		res := matcher.Resolve(ctx, post)
		fmt.Printf("=== %s\n", title)
		fmt.Printf("parsed: artist=%q song=%q genres=%v\n", post.PostTitle.Artist, post.PostTitle.Song, post.PostTitle.Genres)
		fmt.Printf("queries: %s\n", strings.Join(res.Queries, " | "))
		fmt.Printf("state: %s (%d candidates)\n", res.State, len(res.Candidates))

		if !res.Resolved() {
			fmt.Println("not found")
			continue
		}
		out, _ := json.MarshalIndent(res.Match.Record, "", "  ")
		fmt.Println(string(out))
	}
}
