// Package links recovers a canonical external link from the oEmbed payload a
// post carries.
package links

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"hot100/internal/models"
)

var (
	ErrNoMedia    = errors.New("post has no media")
	ErrNoSrc      = errors.New("no src attribute in embed html")
	ErrNoURLParam = errors.New("no url parameter in embed link")
	ErrNoVideoID  = errors.New("no video id in link")
)

// ParseError is returned when a recognised provider's payload cannot be parsed
type ParseError struct {
	Source models.LinkSource
	Step   string
	Err    error
}

func (e *ParseError) Error() string {
	return string(e.Source) + " link " + e.Step + " failed: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	srcAttrRegex   = regexp.MustCompile(`src="([^"\s]+)"`)
	nestedSrcRegex = regexp.MustCompile(`src=(\S+)`)

	// Embed query suffixes, removed through to the end of the link
	embedSuffixRegex = regexp.MustCompile(`\?(?:feature|start|list)\S*`)

	percentDecoder = strings.NewReplacer("%3A", ":", "%2F", "/", "%3D", "=")
)

type parseFunc func(oembed models.MediaOEmbed) (models.MediaLink, error)

// provider binds an exact oEmbed provider_url to its parser
type provider struct {
	ProviderURL string
	Source      models.LinkSource
	Parse       parseFunc
}

// providers is checked in order; the first exact match wins
var providers = []provider{
	{ProviderURL: "https://spotify.com", Source: models.SourceSpotify, Parse: parseSpotify},
	{ProviderURL: "https://www.youtube.com/", Source: models.SourceYouTube, Parse: parseYouTube},
	{ProviderURL: "https://soundcloud.com", Source: models.SourceSoundCloud, Parse: parseSoundCloud},
	{ProviderURL: "http://bandcamp.com", Source: models.SourceBandcamp, Parse: parseBandcamp},
}

// Extract returns the MediaLink for a post's media.
// Unknown providers yield a SourceOther link and no error.
func Extract(media *models.RawMedia) (models.MediaLink, error) {
	if media == nil {
		return models.MediaLink{}, &ParseError{Source: models.SourceOther, Step: "media", Err: ErrNoMedia}
	}

	for _, p := range providers {
		if media.OEmbed.ProviderURL != p.ProviderURL {
			continue
		}
		link, err := p.Parse(media.OEmbed)
		if err != nil {
			return models.MediaLink{}, err
		}
		link.Source = p.Source
		return link, nil
	}

	return models.MediaLink{Source: models.SourceOther}, nil
}

func parseSpotify(oembed models.MediaOEmbed) (models.MediaLink, error) {
	src, err := innermostSrc(oembed.HTML, models.SourceSpotify)
	if err != nil {
		return models.MediaLink{}, err
	}

	link := strings.Replace(decode(src), "embed/", "", 1)
	link = cutAny(link, "%3F", "?", "&")

	return models.MediaLink{
		DirectLink: link,
		PlatformID: SpotifyTrackID(link),
	}, nil
}

func parseYouTube(oembed models.MediaOEmbed) (models.MediaLink, error) {
	link := oembed.URL
	if link == "" {
		src, err := outerSrc(oembed.HTML, models.SourceYouTube)
		if err != nil {
			return models.MediaLink{}, err
		}
		link = embedSuffixRegex.ReplaceAllString(src, "")
		link = strings.Replace(link, "/embed/", "/watch?v=", 1)
	}

	idx := strings.LastIndex(link, "v=")
	if idx < 0 {
		return models.MediaLink{}, &ParseError{Source: models.SourceYouTube, Step: "video id", Err: ErrNoVideoID}
	}
	id := cutAny(link[idx+len("v="):], "&", "#")
	if id == "" {
		return models.MediaLink{}, &ParseError{Source: models.SourceYouTube, Step: "video id", Err: ErrNoVideoID}
	}

	return models.MediaLink{DirectLink: link, PlatformID: id}, nil
}

func parseSoundCloud(oembed models.MediaOEmbed) (models.MediaLink, error) {
	src, err := innermostSrc(oembed.HTML, models.SourceSoundCloud)
	if err != nil {
		return models.MediaLink{}, err
	}
	embed := decode(src)

	idx := strings.LastIndex(embed, "url=")
	if idx < 0 {
		return models.MediaLink{}, &ParseError{Source: models.SourceSoundCloud, Step: "direct link", Err: ErrNoURLParam}
	}
	direct := cutAny(embed[idx+len("url="):], "%3F", "&")
	if direct == "" {
		return models.MediaLink{}, &ParseError{Source: models.SourceSoundCloud, Step: "direct link", Err: ErrNoURLParam}
	}

	return models.MediaLink{DirectLink: direct, EmbedLink: embed}, nil
}

// Bandcamp embeds expose no track URL, only the player link
func parseBandcamp(oembed models.MediaOEmbed) (models.MediaLink, error) {
	src, err := outerSrc(oembed.HTML, models.SourceBandcamp)
	if err != nil {
		return models.MediaLink{}, err
	}
	return models.MediaLink{EmbedLink: decode(src)}, nil
}

// SpotifyTrackID returns the track ID of an open.spotify.com track link or a
// spotify:track: URI, or ""
func SpotifyTrackID(link string) string {
	if id, ok := strings.CutPrefix(link, "spotify:track:"); ok {
		return id
	}

	const marker = "/track/"
	idx := strings.Index(link, marker)
	if idx < 0 {
		return ""
	}
	return cutAny(link[idx+len(marker):], "/", "?", "%3F", "&")
}

func outerSrc(embedHTML string, source models.LinkSource) (string, error) {
	m := srcAttrRegex.FindStringSubmatch(html.UnescapeString(embedHTML))
	if m == nil {
		return "", &ParseError{Source: source, Step: "src", Err: ErrNoSrc}
	}
	return m[1], nil
}

// innermostSrc follows one level of src= nesting, as used by embed proxies
func innermostSrc(embedHTML string, source models.LinkSource) (string, error) {
	src, err := outerSrc(embedHTML, source)
	if err != nil {
		return "", err
	}
	if m := nestedSrcRegex.FindStringSubmatch(src); m != nil {
		return m[1], nil
	}
	return src, nil
}

func decode(s string) string {
	return percentDecoder.Replace(s)
}

// cutAny truncates s at the earliest of the given separators
func cutAny(s string, seps ...string) string {
	end := len(s)
	for _, sep := range seps {
		if i := strings.Index(s, sep); i >= 0 && i < end {
			end = i
		}
	}
	return s[:end]
}
