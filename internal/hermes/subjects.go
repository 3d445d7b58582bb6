package hermes

const (
	SubjectScoreCalculated  = "productivity.score.calculated"
	SubjectScoreFailed      = "productivity.score.failed"
	SubjectCalculateRequest = "productivity.calculate.request"

	StreamName   = "PRODUCTIVITY_EVENTS"
	StreamMaxAge = "720h" // 30 days

	streamSubjects = "productivity.score.>"
)
