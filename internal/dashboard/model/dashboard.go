package model

// StatusCount is one slice of the submissions-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TypeCount is one slice of the submissions-by-request-type aggregate.
type TypeCount struct {
	RequestTypeID   string `json:"request_type_id"`
	RequestTypeName string `json:"request_type_name"`
	Count           int    `json:"count"`
}

// StepCount counts pending submissions waiting at one step index.
type StepCount struct {
	StepIndex int `json:"step_index"`
	Count     int `json:"count"`
}

// TrainingFillRate pairs a training's capacity with its active applications.
type TrainingFillRate struct {
	TrainingID string  `json:"training_id"`
	Title      string  `json:"title"`
	Capacity   int     `json:"capacity"`
	Active     int     `json:"active_applications"`
	FillRate   float64 `json:"fill_rate"`
}

// Headcount counts active employees under one faculty or department.
type Headcount struct {
	RefID string `json:"ref_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the full dashboard payload. It is rebuilt from source rows on
// every cache miss, never patched incrementally.
type Summary struct {
	SubmissionsByStatus []StatusCount      `json:"submissions_by_status"`
	SubmissionsByType   []TypeCount        `json:"submissions_by_type"`
	PendingByStep       []StepCount        `json:"pending_by_step"`
	AvgDecisionMillis   int64              `json:"avg_decision_millis"`
	TrainingFillRates   []TrainingFillRate `json:"training_fill_rates"`
	HeadcountByFaculty  []Headcount        `json:"headcount_by_faculty"`
	HeadcountByDept     []Headcount        `json:"headcount_by_department"`
	GeneratedAt         int64              `json:"generated_at"`
}
