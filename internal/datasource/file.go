package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// FileSource implements PlayerSource over a local JSON slate file. Slates are
// produced out of band (exports, scraped archives, hand-built fixtures) and
// read fresh on every fetch so an updated file is picked up without a restart.
type FileSource struct {
	path   string
	logger *logrus.Entry
}

// slateFile is the on-disk format
type slateFile struct {
	Players []slateEntry `json:"players"`
}

// slateEntry is one player's record in the slate file. Dates are YYYY-MM-DD.
type slateEntry struct {
	PlayerName        string      `json:"player_name"`
	Team              string      `json:"team"`
	GameDate          string      `json:"game_date"`
	SeasonGamesPlayed int         `json:"season_games_played"`
	OddsAmerican      *string     `json:"odds_american"`
	GameLines         []slateLine `json:"game_lines"`
}

type slateLine struct {
	Date           string   `json:"date"`
	AtBats         int      `json:"at_bats"`
	Hits           int      `json:"hits"`
	HomeRuns       int      `json:"home_runs"`
	BattingAverage *float64 `json:"batting_average"`
}

const slateDateLayout = "2006-01-02"

// NewFileSource creates a slate reader over the given JSON file path
func NewFileSource(path string, log *logrus.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: log.WithField("component", "datasource"),
	}
}

// FetchSlate reads the slate file and returns the entries for the given game date
func (f *FileSource) FetchSlate(_ context.Context, gameDate time.Time) ([]PlayerData, error) {
	if !f.IsEnabled() {
		return nil, NewDataSourceError(f.Name(), ErrCodeDisabled, sourceDisabledMsg, ErrSourceDisabled)
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, NewDataSourceError(f.Name(), ErrCodeReadFailed, fmt.Sprintf("failed to read slate file %s", f.path), err)
	}

	var slate slateFile
	if err := json.Unmarshal(raw, &slate); err != nil {
		return nil, NewDataSourceError(f.Name(), ErrCodeInvalidData, "failed to parse slate file", err)
	}

	target := gameDate.Format(slateDateLayout)
	fetched := time.Now().UTC()

	players := make([]PlayerData, 0, len(slate.Players))
	for i, entry := range slate.Players {
		if entry.GameDate != target {
			continue
		}
		data, err := f.convertEntry(i, entry, fetched)
		if err != nil {
			f.logger.WithFields(logrus.Fields{
				"source": f.Name(),
				"player": entry.PlayerName,
			}).WithError(err).Warn("Skipping malformed slate entry")
			continue
		}
		players = append(players, *data)
	}

	f.logger.WithFields(logrus.Fields{
		"source":    f.Name(),
		"game_date": target,
		"players":   len(players),
	}).Debug("Loaded slate file")

	return players, nil
}

// FetchPlayer reads the slate file and returns the entry for a single named player
func (f *FileSource) FetchPlayer(ctx context.Context, playerName string, gameDate time.Time) (*PlayerData, error) {
	slate, err := f.FetchSlate(ctx, gameDate)
	if err != nil {
		return nil, err
	}
	for i := range slate {
		if slate[i].PlayerName == playerName {
			return &slate[i], nil
		}
	}
	return nil, NewDataSourceError(f.Name(), ErrCodeNotFound,
		fmt.Sprintf("player %q is not on the %s slate", playerName, gameDate.Format(slateDateLayout)), ErrNotFound)
}

// Name returns the data source name
func (f *FileSource) Name() string {
	return "file"
}

// IsEnabled returns whether this data source is enabled
func (f *FileSource) IsEnabled() bool {
	return f.path != ""
}

func (f *FileSource) convertEntry(index int, entry slateEntry, fetched time.Time) (*PlayerData, error) {
	if entry.PlayerName == "" {
		return nil, fmt.Errorf("entry %d: missing player name", index)
	}

	gameDate, err := time.Parse(slateDateLayout, entry.GameDate)
	if err != nil {
		return nil, fmt.Errorf("entry %d: bad game date %q: %w", index, entry.GameDate, err)
	}

	lines := make([]GameLineData, 0, len(entry.GameLines))
	for j, line := range entry.GameLines {
		date, err := time.Parse(slateDateLayout, line.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d line %d: bad date %q: %w", index, j, line.Date, err)
		}
		lines = append(lines, GameLineData{
			Date:           date,
			AtBats:         line.AtBats,
			Hits:           line.Hits,
			HomeRuns:       line.HomeRuns,
			BattingAverage: line.BattingAverage,
		})
	}

	return &PlayerData{
		SourceID:          fmt.Sprintf("file-%03d", index+1),
		PlayerName:        entry.PlayerName,
		Team:              entry.Team,
		GameDate:          gameDate,
		SeasonGamesPlayed: entry.SeasonGamesPlayed,
		GameLines:         lines,
		OddsAmerican:      entry.OddsAmerican,
		FetchedAt:         fetched,
	}, nil
}
