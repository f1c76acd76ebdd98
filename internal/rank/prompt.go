package rank

import (
	"encoding/json"
	"fmt"
	"strings"

	"scorescan/internal/music"
)

// scoredVideo is the per-video payload shown to the scoring model.
type scoredVideo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Channel        string `json:"channel"`
	Views          int64  `json:"views"`
	Duration       string `json:"duration"`
	SearchStrategy string `json:"search_strategy"`
}

// buildPrompt produces the scoring instructions. The rubric caps keep the
// model from rewarding videos of the wrong piece, wrong composer, or of
// excerpt length.
func buildPrompt(videos []music.CandidateVideo, piece music.PieceIdentity, instrument string) (string, error) {
	payload := make([]scoredVideo, 0, len(videos))
	for _, v := range videos {
		payload = append(payload, scoredVideo{
			ID:             v.ID,
			Title:          v.Title,
			Channel:        v.Channel,
			Views:          v.Views,
			Duration:       v.Duration,
			SearchStrategy: string(v.SearchStrategy),
		})
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rank: encode video payload: %w", err)
	}

	scene := piece.SceneOrMovement
	sceneLabel := scene
	if sceneLabel == "" {
		sceneLabel = "N/A"
	}
	var sceneRubric string
	if piece.HasScene() {
		sceneRubric = fmt.Sprintf(`If scene/movement is: %s
   - 10: Exact scene/movement match
   - 8-9: Very close scene match
   - 6-7: Related scene/movement
   - 4-5: Different scene from same work
   - 0-3: Wrong or unrelated`, scene)
	} else {
		sceneRubric = `Since no specific scene/movement was identified
   - 5: Default score (no scene to match)`
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Score these YouTube videos for accuracy in matching this musical piece:

TARGET PIECE:
- Title: %q
- Composer: %q
- Scene/Movement: %q
- Target Instrument: %q

VIDEOS TO SCORE:
%s

For each video, provide scores (0-10 scale):

1. **title_match_score**: How well does the video title match %q?
   - 10: Exact match
   - 8-9: Very close match with minor variations
   - 6-7: Recognizable match but with differences
   - 4-5: Partial match
   - 0-3: Poor or no match

2. **composer_match_score**: How well does the video mention %q?
   - 10: Exact composer name match
   - 8-9: Very close (e.g., "Tchaikovsky" vs "P.I. Tchaikovsky")
   - 6-7: Recognizable but abbreviated
   - 4-5: Partial mention
   - 0-3: Wrong or missing composer

3. **scene_match_score**: %s

4. **duration_match_score**: How appropriate is the video duration for this piece?
   Consider these factors:
   - Is this likely a complete performance or just an excerpt?
   - Does the duration make sense for the identified piece/movement?
   - Very short videos (< 2 minutes) are likely excerpts or practice sessions
   - Very long videos (> 45 minutes) might be full concerts with multiple pieces
   - For solo pieces: 3-15 minutes often indicates complete movements
   - For orchestral movements: 5-20 minutes often indicates complete movements
   - For opera scenes: 3-12 minutes often indicates complete scenes

   Scoring:
   - 10: Perfect duration for a complete performance of this piece/movement
   - 8-9: Good duration, likely complete or nearly complete
   - 6-7: Reasonable duration but might be abbreviated
   - 4-5: Duration suggests partial performance or excerpt
   - 0-3: Duration clearly wrong (too short/long for this piece)

5. **overall_accuracy_score**: Weighted average
   - title_match_score * 0.35
   - composer_match_score * 0.35
   - scene_match_score * 0.15
   - duration_match_score * 0.15

CRITICAL REQUIREMENTS:
- Videos with WRONG piece titles should get title_match_score <= 3
- Videos with WRONG composers should get composer_match_score <= 3
- Videos that are clearly excerpts (< 90 seconds) should get duration_match_score <= 4
- Only give high scores (8+) to videos that are clearly the correct piece with appropriate duration

Return ONLY a JSON array with this format:
[
  {
    "video_id": "id1",
    "title_match_score": 8.5,
    "composer_match_score": 9.0,
    "scene_match_score": 7.0,
    "duration_match_score": 8.0,
    "overall_accuracy_score": 8.1
  },
  ...
]`,
		piece.Title, piece.Composer, sceneLabel, instrument,
		encoded,
		piece.Title,
		piece.Composer,
		sceneRubric)

	return b.String(), nil
}
