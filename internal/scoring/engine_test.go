package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func boolPtr(v bool) *bool {
	return &v
}

func basePrediction() models.Prediction {
	return models.Prediction{
		User:       "ana",
		Season:     2025,
		Round:      5,
		P1:         "A",
		P2:         "B",
		P3:         "C",
		Pole:       "A",
		FastestLap: "D",
	}
}

func baseActual() *models.RaceActual {
	return &models.RaceActual{
		Season:     2025,
		Round:      5,
		P1:         "A",
		P2:         "B",
		P3:         "C",
		Pole:       "A",
		FastestLap: "D",
	}
}

func TestScorePredictionPerfectWeekend(t *testing.T) {
	scored := ScorePrediction(basePrediction(), baseActual(), nil, DefaultConfig())

	assert.True(t, scored.Score.PodiumExact)
	assert.Equal(t, 2, scored.Score.P1)
	assert.Equal(t, 2, scored.Score.P2)
	assert.Equal(t, 2, scored.Score.P3)
	assert.Equal(t, 1, scored.Score.Pole)
	assert.Equal(t, 1, scored.Score.FastestLap)
	assert.Equal(t, 8, scored.Score.Total)
}

func TestScorePredictionPartialPodiumNeverDoubles(t *testing.T) {
	actual := baseActual()
	actual.P3 = "E"

	scored := ScorePrediction(basePrediction(), actual, nil, DefaultConfig())

	assert.False(t, scored.Score.PodiumExact)
	assert.Equal(t, 1, scored.Score.P1)
	assert.Equal(t, 1, scored.Score.P2)
	assert.Equal(t, 0, scored.Score.P3)
	assert.Equal(t, 4, scored.Score.Total)
}

func TestScorePredictionUnknownPole(t *testing.T) {
	actual := baseActual()
	actual.Pole = ""

	scored := ScorePrediction(basePrediction(), actual, nil, DefaultConfig())

	assert.Equal(t, 0, scored.Score.Pole)
	assert.Equal(t, 7, scored.Score.Total)
}

func TestScorePredictionNilActual(t *testing.T) {
	scored := ScorePrediction(basePrediction(), nil, nil, DefaultConfig())
	assert.Equal(t, models.PredictionScore{}, scored.Score)
	assert.Equal(t, "ana", scored.User)
}

func TestScorePredictionMissingSlotDoesNotBlockOthers(t *testing.T) {
	pred := basePrediction()
	pred.P2 = ""

	scored := ScorePrediction(pred, baseActual(), nil, DefaultConfig())

	assert.Equal(t, 1, scored.Score.P1)
	assert.Equal(t, 0, scored.Score.P2)
	assert.Equal(t, 1, scored.Score.P3)
	assert.False(t, scored.Score.PodiumExact)
}

func TestScorePredictionLock(t *testing.T) {
	tests := []struct {
		name      string
		lock      string
		mutate    func(a *models.RaceActual)
		cfg       func(c *Config)
		wantLock  int
		wantTotal int
	}{
		{name: "no lock", lock: "", wantLock: 0, wantTotal: 8},
		{name: "lock on podium slot with exact podium", lock: "p2", wantLock: 1, wantTotal: 9},
		{name: "lock on pole hit", lock: "pole", wantLock: 1, wantTotal: 9},
		{
			name:      "lock on missed fastest lap",
			lock:      "fastestLap",
			mutate:    func(a *models.RaceActual) { a.FastestLap = "Z" },
			wantLock:  0,
			wantTotal: 7,
		},
		{
			name:      "side bet lock disabled",
			lock:      "redFlag",
			mutate:    func(a *models.RaceActual) { a.RedFlag = boolPtr(true) },
			wantLock:  0,
			wantTotal: 10,
		},
		{
			name:      "side bet lock enabled",
			lock:      "redFlag",
			mutate:    func(a *models.RaceActual) { a.RedFlag = boolPtr(true) },
			cfg:       func(c *Config) { c.LockSideBets = true },
			wantLock:  1,
			wantTotal: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := basePrediction()
			pred.LockField = tt.lock
			pred.SideBets = map[models.SideBet]bool{models.SideBetRedFlag: true}
			actual := baseActual()
			if tt.mutate != nil {
				tt.mutate(actual)
			}
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			scored := ScorePrediction(pred, actual, nil, cfg)
			assert.Equal(t, tt.wantLock, scored.Score.Lock)
			assert.Equal(t, tt.wantTotal, scored.Score.Total)
		})
	}
}

func TestScorePredictionLockMatchesSlotScore(t *testing.T) {
	actuals := []*models.RaceActual{
		baseActual(),
		{P1: "X", P2: "B", P3: "Y", Pole: "", FastestLap: "D"},
		{},
	}
	for _, actual := range actuals {
		for _, field := range models.RequiredFields {
			pred := basePrediction()
			pred.LockField = string(field)
			scored := ScorePrediction(pred, actual, nil, DefaultConfig())
			want := 0
			if scored.Score.Slot(field) > 0 {
				want = 1
			}
			assert.Equal(t, want, scored.Score.Lock, "field %s", field)
		}
	}
}

func TestScorePredictionSideBets(t *testing.T) {
	pred := basePrediction()
	pred.SideBets = map[models.SideBet]bool{
		models.SideBetPoleConverts: true,  // correct, stable
		models.SideBetAnyDNF:       false, // wrong
		models.SideBetBigMover:     true,  // correct, chaos
		models.SideBetRedFlag:      true,  // unknown outcome
	}
	actual := baseActual()
	actual.PoleConverts = boolPtr(true)
	actual.AnyDNF = boolPtr(true)
	actual.BigMover = boolPtr(true)

	scored := ScorePrediction(pred, actual, nil, DefaultConfig())

	assert.Equal(t, 1, scored.Score.SideBetDetail[models.SideBetPoleConverts])
	assert.Equal(t, 0, scored.Score.SideBetDetail[models.SideBetAnyDNF])
	assert.Equal(t, 2, scored.Score.SideBetDetail[models.SideBetBigMover])
	assert.Equal(t, 0, scored.Score.SideBetDetail[models.SideBetRedFlag])
	assert.Equal(t, 3, scored.Score.SideBets)
	assert.Equal(t, 11, scored.Score.Total)
}

func TestScorePredictionSideBetWeightsAreExternal(t *testing.T) {
	pred := basePrediction()
	pred.SideBets = map[models.SideBet]bool{models.SideBetPoleConverts: true}
	actual := baseActual()
	actual.PoleConverts = boolPtr(true)

	cfg := DefaultConfig()
	cfg.SideBetPoints = map[models.SideBet]int{models.SideBetPoleConverts: 5}

	scored := ScorePrediction(pred, actual, nil, cfg)
	assert.Equal(t, 5, scored.Score.SideBets)
}

func TestScorePredictionWildcard(t *testing.T) {
	results := models.RaceResults{
		{DriverID: "W", Position: models.IntPtr(9)},
		{DriverID: "X", Position: models.IntPtr(11)},
		{DriverID: "Y", Position: nil},
	}
	tests := []struct {
		name   string
		driver string
		text   string
		rule   string
		want   int
	}{
		{name: "inside top ten", driver: "W", rule: WildcardRuleTop10, want: 1},
		{name: "outside top ten", driver: "X", rule: WildcardRuleTop10, want: 0},
		{name: "dnf", driver: "Y", rule: WildcardRuleTop10, want: 0},
		{name: "not in results", driver: "Q", rule: WildcardRuleTop10, want: 0},
		{name: "free text only", text: "someone surprising", rule: WildcardRuleTop10, want: 0},
		{name: "rule disabled", driver: "W", rule: WildcardRuleNone, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := basePrediction()
			pred.WildcardDriver = tt.driver
			pred.WildcardText = tt.text
			cfg := DefaultConfig()
			cfg.WildcardRule = tt.rule

			scored := ScorePrediction(pred, baseActual(), results, cfg)
			assert.Equal(t, tt.want, scored.Score.Wildcard)
		})
	}
}

func TestScoreRoundPreservesOrder(t *testing.T) {
	a := basePrediction()
	b := basePrediction()
	b.User = "ben"
	b.P1 = "Z"

	scored := ScoreRound([]models.Prediction{a, b}, baseActual(), nil, DefaultConfig())
	require.Len(t, scored, 2)
	assert.Equal(t, "ana", scored[0].User)
	assert.Equal(t, 8, scored[0].Score.Total)
	assert.Equal(t, "ben", scored[1].User)
	assert.Equal(t, 4, scored[1].Score.Total)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.WildcardRule = "top3"
	assert.True(t, models.IsConfigurationError(bad.Validate()))

	negative := DefaultConfig()
	negative.SideBetPoints[models.SideBetRedFlag] = -1
	assert.True(t, models.IsConfigurationError(negative.Validate()))
}
