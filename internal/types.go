package internal

// RawRow is one spreadsheet row after column-layout resolution: the label cell
// plus whichever numeric feature cells parsed. Missing features are simply
// absent from the map.
type RawRow struct {
	Index    int
	Label    string
	Features map[string]float64
}

type Table struct {
	Rows []RawRow
}

type RecordSource string

const (
	SourceStatic RecordSource = "static"
	SourceLive   RecordSource = "live"
)

// ReferenceRecord is one catalog entry keyed by its canonical name. The static
// and live sources carry different attribute sets, so everything beyond
// Name/Key is optional and tagged by Source.
type ReferenceRecord struct {
	Source RecordSource
	Name   string
	Key    string

	// GPU attributes (static source).
	MemoryGB      *int
	CoreClockMHz  *int
	BoostClockMHz *int
	LengthMM      *int

	// CPU attributes (static and live sources).
	Cores         *int
	Threads       *int
	BaseClockGHz  *float64
	BoostClockGHz *float64
	TDPWatt       *int
	Graphics      *string
	SMT           *bool
	PriceUSD      *float64
}

// Variant pairs an original spreadsheet label with its candidate canonical
// keys. CanonicalKey is the fully-collapsed model key that scoring joins on;
// MemoryStrippedKey and CapacitySplitKey are empty for domains that use a
// single normalization strategy.
type Variant struct {
	Original          string
	PrimaryKey        string
	MemoryStrippedKey string
	CapacitySplitKey  string
	CanonicalKey      string
}

type MatchKind string

const (
	MatchStaticExact          MatchKind = "STATIC_EXACT"
	MatchStaticMemoryStripped MatchKind = "STATIC_MEMORY_STRIPPED"
	MatchLiveExact            MatchKind = "LIVE_EXACT"
	MatchLiveCapacitySplit    MatchKind = "LIVE_CAPACITY_SPLIT"
)

// MatchResult records which candidate key hit which index. Persisted model
// rows are keyed by CanonicalKey, not by the key that happened to hit, so
// score updates always land; Key stays alongside for diagnostics.
type MatchResult struct {
	Label        string
	Key          string
	CanonicalKey string
	Kind         MatchKind
	Record       ReferenceRecord
}

// UnmatchedLabel keeps the best normalized key attempted so it can be
// persisted for diagnostics.
type UnmatchedLabel struct {
	Label        string
	Key          string
	CanonicalKey string
}

// SentinelRank marks rows whose score is undefined; they stay visible in
// output as unranked rather than being dropped.
const SentinelRank = 999

// ScoredRow extends a RawRow with its tier, normalized features, both score
// variants, effective weight sums and ranks. Scores are NaN when the row's
// data coverage fell below the minimum weight sum.
type ScoredRow struct {
	RawRow
	Key  string
	Tier string

	Normalized map[string]float64

	CompositeScore     float64
	PureScore          float64
	CompositeWeightSum float64
	PureWeightSum      float64

	CompositeRank     int
	PureRank          int
	TierCompositeRank int
	TierPureRank      int
}
