package identify

import (
	"fmt"
	"strings"
)

// identificationPromptTemplate instructs the reasoning model to extract a
// piece identity from OCR text. The wording deliberately pushes toward
// optimistic best-effort guesses: low confidence is reserved for text that
// is plainly not sheet music at all.
const identificationPromptTemplate = `Analyze this sheet music text to identify the essential information. Even if unclear, make educated guesses based on what you can see:

EXTRACTED TEXT:
%s

I need you to identify:
1. **Title** - The name of the piece (be precise, include subtitles if present)
2. **Composer** - The composer's name (last name only is perfectly fine)
3. **Scene/Movement** - Any specific movement, scene, act, or section (if present)

IMPORTANT RULES:
- **Make educated guesses even if text is unclear or ambiguous**
- **You MUST be able to identify a composer - if you truly cannot, return "Unknown" and explain why**
- **Only set confidence to "low" if the text makes absolutely no musical sense or appears to be completely unrelated to sheet music**
- Even partial information is valuable - if you can identify either a title OR composer (even with uncertainty), proceed with medium confidence
- Composer last names are totally acceptable (e.g., "Messager", "Brahms", "Mozart")
- Many pieces don't have scene/movement information - this is completely normal
- If you see musical terms, instrument names, or anything that suggests this is sheet music, try to extract whatever title/composer info you can find
- Don't include generic terms like "for orchestra" or instrument names in the title unless they're clearly part of the actual piece title

CONFIDENCE LEVELS:
- **HIGH**: Clear title and composer, may or may not have scene/movement
- **MEDIUM**: Can identify at least a title OR composer with reasonable confidence, even if some ambiguity exists
- **LOW**: Only use this if the text appears to be completely unrelated to music (e.g., random text, technical manuals, etc.) or makes absolutely no sense

Examples of what should get MEDIUM or HIGH confidence (not LOW):
- "Solo de concours", Composer: "Messager" -> HIGH
- Partial text showing "...Brahms...Intermezzo..." -> MEDIUM (make educated guess about title)
- "Concerto in D" with no clear composer but musical context -> set composer to "Unknown" and explain
- Text mentioning "Mozart" and some piece fragments -> MEDIUM (make best guess at title)

Examples that should get LOW confidence:
- Random computer code or technical documentation
- Grocery lists or completely non-musical text

STRATEGY: Be optimistic and make reasonable guesses. Musicians often work with incomplete or unclear sheet music, so help them by extracting whatever useful information you can find, even if imperfect.

Return your response in this JSON format:
{
    "title": "exact piece title or best guess based on available text",
    "composer": "composer name (last name is fine) or 'Unknown' if truly cannot identify",
    "scene_movement": "specific scene/movement if clearly visible, empty string if not",
    "confidence": "high/medium/low",
    "reasoning": "brief explanation of what you found and why you chose this confidence level"
}`

func buildPrompt(ocrText string) string {
	return fmt.Sprintf(identificationPromptTemplate, strings.TrimSpace(ocrText))
}
