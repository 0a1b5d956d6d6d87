package prospect

type PlayerType string

const (
	PlayerTypeHitter  PlayerType = "Hitter"
	PlayerTypePitcher PlayerType = "Pitcher"
)

// RosterEntry is one Rule 5 eligible player as reported by the roster source.
// Nil pointers mean the provider omitted the value, which is distinct from zero.
type RosterEntry struct {
	Name        string
	Position    string
	Age         *float64
	Level       string
	Org         string
	OrgRank     *int
	OverallRank *int
}

// AdvancedMetricRecord carries statcast-style metrics for one player.
// Hitter and pitcher rows share the struct; PlayerType tells them apart and
// the metrics the other type never reports stay nil.
type AdvancedMetricRecord struct {
	Name          string
	Age           *float64
	Position      string
	ProspectScore *float64
	PlayerType    PlayerType

	XBA         *float64
	XSLG        *float64
	XWOBA       *float64
	EV          *float64
	BarrelPct   *float64
	ChasePct    *float64
	KPct        *float64
	BBPct       *float64
	SprintSpeed *float64
	PA          *float64

	MaxVelo  *float64
	WhiffPct *float64
	IP       *float64
}

// SeasonBattingRecord is one season batting line from the league stat source.
// Rate stats arrive as fractions in (0,1); display scaling happens later.
type SeasonBattingRecord struct {
	Name  string
	Level string
	Age   *float64

	G       *float64
	PA      *float64
	AVG     *float64
	OBP     *float64
	SLG     *float64
	OPS     *float64
	HR      *float64
	SB      *float64
	BBPct   *float64
	KPct    *float64
	WRCPlus *float64
}

// SeasonPitchingRecord is one season pitching line from the league stat source.
type SeasonPitchingRecord struct {
	Name  string
	Level string
	Age   *float64

	G    *float64
	GS   *float64
	IP   *float64
	W    *float64
	L    *float64
	SV   *float64
	HLD  *float64
	ERA  *float64
	WHIP *float64
	FIP  *float64
	XFIP *float64

	KPer9       *float64
	BBPer9      *float64
	HRPer9      *float64
	KMinusBBPct *float64
	KPct        *float64
	BBPct       *float64
	GBPct       *float64
	HRPerFB     *float64
	LOBPct      *float64
}
