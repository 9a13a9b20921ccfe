package ytsearch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const initialDataPrefix = "var ytInitialData = "

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
	SimpleText string `json:"simpleText"`
}

func (t textRuns) text() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	if len(t.Runs) > 0 {
		return t.Runs[0].Text
	}
	return ""
}

type videoRenderer struct {
	VideoId   string   `json:"videoId"`
	Title     textRuns `json:"title"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
	LengthText    *textRuns `json:"lengthText"`
	OwnerText     textRuns  `json:"ownerText"`
	ViewCountText *textRuns `json:"viewCountText"`
}

type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

func parseResultsPage(doc *html.Node) ([]Video, error) {
	raw := findInitialData(doc)
	if raw == "" {
		return nil, fmt.Errorf("initial data not found")
	}

	return parseInitialData(raw)
}

// findInitialData walks the script elements for the one assigning
// ytInitialData and returns the JSON literal it carries.
func findInitialData(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
		script := strings.TrimSpace(n.FirstChild.Data)
		if rest, ok := strings.CutPrefix(script, initialDataPrefix); ok {
			return strings.TrimSuffix(strings.TrimSpace(rest), ";")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw := findInitialData(c); raw != "" {
			return raw
		}
	}
	return ""
}

func parseInitialData(raw string) ([]Video, error) {
	var data initialData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal initial data: %w", err)
	}

	var videos []Video
	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		for _, item := range section.ItemSectionRenderer.Contents {
			r := item.VideoRenderer
			if r == nil || r.VideoId == "" {
				continue
			}
			// no duration means a live or upcoming stream, not a video
			if r.LengthText == nil {
				continue
			}

			video := Video{
				Title:     r.Title.text(),
				URL:       "https://www.youtube.com/watch?v=" + r.VideoId,
				VideoId:   r.VideoId,
				Author:    r.OwnerText.text(),
				Timestamp: r.LengthText.text(),
			}
			video.Seconds = parseTimestamp(video.Timestamp)
			if len(r.Thumbnail.Thumbnails) > 0 {
				video.Thumbnail = r.Thumbnail.Thumbnails[len(r.Thumbnail.Thumbnails)-1].URL
			}
			if r.ViewCountText != nil {
				video.Views = parseViews(r.ViewCountText.text())
			}

			videos = append(videos, video)
		}
	}

	return videos, nil
}

// parseTimestamp converts "1:23:45" style durations to seconds. Malformed
// input yields 0.
func parseTimestamp(timestamp string) int {
	parts := strings.Split(timestamp, ":")
	if len(parts) > 3 {
		return 0
	}

	seconds := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		seconds = seconds*60 + n
	}

	return seconds
}

// parseViews converts "1,234,567 views" to a count. Malformed input yields 0.
func parseViews(viewCount string) int64 {
	number, _, _ := strings.Cut(viewCount, " ")
	number = strings.ReplaceAll(number, ",", "")

	views, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return 0
	}

	return views
}
