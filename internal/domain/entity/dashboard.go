package entity

// Dashboard - сводка для главной страницы админки
type Dashboard struct {
	TotalExams        int             `json:"totalExams"`
	TotalCandidates   int             `json:"totalCandidates"`
	TotalQuestions    int             `json:"totalQuestions"`
	TotalAttempts     int             `json:"totalAttempts"`
	SubmittedAttempts int             `json:"submittedAttempts"`
	Exams             []ExamSummary   `json:"exams"`
	RecentResults     []ResultSummary `json:"recentResults"`
}

// ExamSummary - статистика по одному экзамену
type ExamSummary struct {
	ExamID            uint     `json:"examId"`
	ExamName          string   `json:"examName"`
	AccessCode        string   `json:"accessCode"`
	TotalQuestions    int      `json:"totalQuestions"`
	DurationMinutes   int      `json:"durationMinutes"`
	TotalAttempts     int      `json:"totalAttempts"`
	SubmittedAttempts int      `json:"submittedAttempts"`
	TotalCandidates   int      `json:"totalCandidates"`
	AverageScore      *float64 `json:"averageScore,omitempty"`
	IsActive          bool     `json:"isActive"`
	CreatedAt         string   `json:"createdAt"`
}

// ResultSummary - последний результат кандидата
type ResultSummary struct {
	ResultID       uint    `json:"resultId"`
	ExamName       string  `json:"examName"`
	CandidateName  string  `json:"candidateName"`
	CandidateEmail string  `json:"candidateEmail"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	Percentage     float64 `json:"percentage"`
	EvaluatedAt    string  `json:"evaluatedAt"`
}

// CompletionRate возвращает долю сданных попыток в процентах
func (d *Dashboard) CompletionRate() float64 {
	if d.TotalAttempts == 0 {
		return 0
	}
	return float64(d.SubmittedAttempts) * 100 / float64(d.TotalAttempts)
}
