//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type PostgresLogin struct {
	Host   string
	Port   int
	User   string
	Pass   string
	DBName string
}

type CurrentConfiguration struct {
	Alpha          float64
	Baseline       bool
	Beta           float64
	BlackAndWhite  bool
	DBPath         string
	Iterations     int
	LogLevel       int
	MaxLines       int
	ModelName      string
	NoSave         bool
	PGLogin        PostgresLogin
	Profiling      bool
	QuietStart     bool
	Roles          int
	SelfTest       bool
	SourcePath     string
	Themes         int
	TickerActive   bool
	UsePostgres    bool
	VocabSize      int
	WebMonitor     bool
	WebMonitorPort int
	WorkerCount    int
}

// NumTopics - themes and roles share a single topic id space; ids at or beyond Themes are roles
func (c CurrentConfiguration) NumTopics() int {
	return c.Themes + c.Roles
}
