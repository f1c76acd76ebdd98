package strategy

import (
	"fmt"
	"log/slog"

	"scorescan/internal/logging"
	"scorescan/internal/music"
)

// Generator builds the ordered search strategy list for a piece.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: logging.NewComponentLogger(logger, "strategy")}
}

// Generate returns the search strategies in fixed priority order: the
// basic title+composer+instrument query, a scene-qualified variant when
// the piece names one, then the same pair again without the instrument
// for ensemble recordings. A piece with no scene yields exactly two
// strategies, one with a scene yields four.
func (g *Generator) Generate(piece music.PieceIdentity, instrument string) []music.SearchStrategy {
	instrument = NormalizeInstrument(instrument)

	strategies := []music.SearchStrategy{
		{Query: fmt.Sprintf("%s %s %s", piece.Title, piece.Composer, instrument), Label: music.StrategyBasic},
	}
	if piece.HasScene() {
		strategies = append(strategies, music.SearchStrategy{
			Query: fmt.Sprintf("%s %s %s %s", piece.Title, piece.Composer, instrument, piece.SceneOrMovement),
			Label: music.StrategyScene,
		})
	}
	strategies = append(strategies, music.SearchStrategy{
		Query: fmt.Sprintf("%s %s", piece.Title, piece.Composer),
		Label: music.StrategyEnsemble,
	})
	if piece.HasScene() {
		strategies = append(strategies, music.SearchStrategy{
			Query: fmt.Sprintf("%s %s %s", piece.Title, piece.Composer, piece.SceneOrMovement),
			Label: music.StrategyEnsembleScene,
		})
	}

	g.logger.Debug("search strategies generated",
		logging.String("title", piece.Title),
		logging.String("instrument", instrument),
		logging.Int("count", len(strategies)))

	return strategies
}
