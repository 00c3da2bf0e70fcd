package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every consumption, shortfall, assembly outcome and verdict.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during one factory run.
type SimulationTrace struct {
	Config       TraceConfig
	Consumptions []ConsumptionRecord
	Shortfalls   []ShortfallRecord
	Assemblies   []AssemblyRecord
	Verdicts     []VerdictRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Consumptions: make([]ConsumptionRecord, 0),
		Shortfalls:   make([]ShortfallRecord, 0),
		Assemblies:   make([]AssemblyRecord, 0),
		Verdicts:     make([]VerdictRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordConsumption appends a consumption record.
func (st *SimulationTrace) RecordConsumption(record ConsumptionRecord) {
	st.Consumptions = append(st.Consumptions, record)
}

// RecordShortfall appends a shortfall record.
func (st *SimulationTrace) RecordShortfall(record ShortfallRecord) {
	st.Shortfalls = append(st.Shortfalls, record)
}

// RecordAssembly appends an assembly attempt record.
func (st *SimulationTrace) RecordAssembly(record AssemblyRecord) {
	st.Assemblies = append(st.Assemblies, record)
}

// RecordVerdict appends an acceptance verdict record.
func (st *SimulationTrace) RecordVerdict(record VerdictRecord) {
	st.Verdicts = append(st.Verdicts, record)
}
